// Package validation provides input validation for chainsource.
package validation

import (
	"errors"
	"strings"
)

// ValidateAddress validates an EVM address
func ValidateAddress(addr string) error {
	if len(addr) != 42 {
		return errors.New("invalid address length: must be 42 characters (0x + 40 hex)")
	}
	if !strings.HasPrefix(addr, "0x") {
		return errors.New("invalid address: must start with 0x")
	}
	// Check hex characters
	for _, c := range addr[2:] {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return errors.New("invalid address: contains non-hex characters")
		}
	}
	return nil
}

// NormalizeAddress lowercases an address and ensures the 0x prefix
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}
	return addr
}

// ValidateChainID validates a chain ID
func ValidateChainID(chainID int64) error {
	if chainID <= 0 {
		return errors.New("chain ID must be positive")
	}
	return nil
}
