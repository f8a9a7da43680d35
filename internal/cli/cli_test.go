package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/chainsource/internal/etherscan"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short key", "abc", "****"},
		{"boundary length", "12345678", "****"},
		{"long key", "ABCDEFGH123456789XYZW", "ABCDEFGH...XYZW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.input))
		})
	}
}

func TestRenderFetchError_MessagePerKind(t *testing.T) {
	tests := []struct {
		kind etherscan.FailureKind
		want string
	}{
		{etherscan.KindUnsupportedChain, "not supported"},
		{etherscan.KindInvalidAPIKey, "API key"},
		{etherscan.KindRateLimited, "rate limited"},
		{etherscan.KindNoContractFound, "no contract found"},
		{etherscan.KindEOAAddress, "externally owned account"},
		{etherscan.KindUnverifiedContract, "no verified source"},
		{etherscan.KindTransportError, "could not reach"},
		{etherscan.KindAPIError, "explorer API error"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := renderFetchError(&etherscan.FetchError{
				Kind:    tt.kind,
				ChainID: 1,
				Address: "0x1234567890abcdef1234567890abcdef12345678",
				Detail:  "upstream detail",
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRenderFetchError_PassesThroughOtherErrors(t *testing.T) {
	err := renderFetchError(os.ErrPermission)
	assert.Equal(t, os.ErrPermission, err)
}

func TestRunFetch_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "1",
			"message": "OK",
			"result": []map[string]string{{
				"SourceCode":       `{"language":"Solidity","sources":{"Token.sol":{"content":"contract Token {}"},"lib/Math.sol":{"content":"library Math {}"}}}`,
				"ContractName":     "Token",
				"CompilerVersion":  "v0.8.19+commit.7dd6d404",
				"OptimizationUsed": "1",
				"Runs":             "200",
				"Proxy":            "0",
			}},
		})
	}))
	defer server.Close()

	workDir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { os.Chdir(old) })

	t.Setenv("CHAINSOURCE_API_URL", server.URL)
	t.Setenv("ETHERSCAN_API_KEY", "test-key")

	outDir := filepath.Join(workDir, "out")
	err = runFetch("0x1234567890abcdef1234567890abcdef12345678", 1, outDir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "Token.sol"))
	assert.FileExists(t, filepath.Join(outDir, "lib", "Math.sol"))
	assert.FileExists(t, filepath.Join(outDir, "metadata.json"))
}

func TestRunFetch_RejectsBadAddress(t *testing.T) {
	err := runFetch("not-an-address", 1, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestRunFetch_UnsupportedChain(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "test-key")

	err := runFetch("0x1234567890abcdef1234567890abcdef12345678", 424242, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}
