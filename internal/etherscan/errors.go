package etherscan

import "fmt"

// FailureKind classifies why a fetch produced no contract record. The upstream
// API has no machine-readable error codes, so the client maps every anomaly
// into one of these kinds and callers switch on the kind instead of parsing
// message text.
type FailureKind int

const (
	// KindInvalidAPIKey means the credential was rejected or never resolved.
	KindInvalidAPIKey FailureKind = iota
	// KindRateLimited means the upstream throttled the request.
	KindRateLimited
	// KindUnsupportedChain means the chain id is not in the registry.
	KindUnsupportedChain
	// KindNoContractFound means the API returned an empty result set.
	KindNoContractFound
	// KindUnverifiedContract means bytecode exists but no source is published.
	KindUnverifiedContract
	// KindEOAAddress means the address is a wallet, not a contract.
	KindEOAAddress
	// KindAPIError means the API reported a failure the client cannot name.
	KindAPIError
	// KindTransportError means the request never produced a usable response.
	KindTransportError
)

// String returns the kind's stable name.
func (k FailureKind) String() string {
	switch k {
	case KindInvalidAPIKey:
		return "invalid API key"
	case KindRateLimited:
		return "rate limited"
	case KindUnsupportedChain:
		return "unsupported chain"
	case KindNoContractFound:
		return "no contract found"
	case KindUnverifiedContract:
		return "unverified contract"
	case KindEOAAddress:
		return "externally owned account"
	case KindAPIError:
		return "API error"
	case KindTransportError:
		return "transport error"
	default:
		return "unknown"
	}
}

// FetchError is the sole failure channel of the client. It carries enough
// context (kind, address, chain, upstream detail) for the caller to render a
// single actionable line without inspecting internals.
type FetchError struct {
	Kind    FailureKind
	ChainID int64
	Address string
	Detail  string
}

func (e *FetchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s for %s on chain %d: %s", e.Kind, e.Address, e.ChainID, e.Detail)
	}
	return fmt.Sprintf("%s for %s on chain %d", e.Kind, e.Address, e.ChainID)
}

// Is lets errors.Is match two FetchErrors by kind.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}
