// Package writer persists decoded contract source to a local directory tree.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pendergraft/chainsource/internal/etherscan"
	"github.com/pendergraft/chainsource/internal/source"
)

// MetadataFileName is the descriptor written next to the source files.
const MetadataFileName = "metadata.json"

// Metadata is the on-disk descriptor for a saved contract.
type Metadata struct {
	ContractName     string     `json:"contractName"`
	CompilerVersion  string     `json:"compilerVersion"`
	OptimizationUsed bool       `json:"optimizationUsed"`
	Runs             int        `json:"runs"`
	EVMVersion       string     `json:"evmVersion"`
	Library          string     `json:"library"`
	LicenseType      string     `json:"licenseType"`
	Proxy            string     `json:"proxy"`
	SwarmSource      string     `json:"swarmSource"`
	ProxyInfo        *ProxyInfo `json:"proxyInfo,omitempty"`
}

// ProxyInfo is present only when the contract is a proxy.
type ProxyInfo struct {
	Implementation string `json:"implementation"`
}

// Save writes each decoded file under outputRoot, creating directories as
// needed and overwriting existing files, then writes metadata.json. It
// returns the absolute paths written, in write order. Failures are plain
// wrapped I/O errors, never classification outcomes.
func Save(outputRoot string, record *etherscan.ContractRecord, files []source.File) ([]string, error) {
	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	written := make([]string, 0, len(files)+1)
	for _, f := range files {
		dest := filepath.Join(outputRoot, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Path, err)
		}
		abs, err := filepath.Abs(dest)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", dest, err)
		}
		written = append(written, abs)
	}

	metaPath, err := writeMetadata(outputRoot, record)
	if err != nil {
		return nil, err
	}
	return append(written, metaPath), nil
}

func writeMetadata(outputRoot string, record *etherscan.ContractRecord) (string, error) {
	evmVersion := record.EVMVersion
	if evmVersion == "" {
		evmVersion = "default"
	}

	meta := Metadata{
		ContractName:     record.ContractName,
		CompilerVersion:  record.CompilerVersion,
		OptimizationUsed: record.OptimizationUsed,
		Runs:             record.Runs,
		EVMVersion:       evmVersion,
		Library:          record.Library,
		LicenseType:      record.LicenseType,
		Proxy:            record.Proxy,
		SwarmSource:      record.SwarmSource,
	}
	if record.IsProxy {
		meta.ProxyInfo = &ProxyInfo{Implementation: record.ImplementationAddress}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	dest := filepath.Join(outputRoot, MetadataFileName)
	if err := os.WriteFile(dest, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}
	return filepath.Abs(dest)
}
