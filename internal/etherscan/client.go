// Package etherscan is the fetch-and-classify client for the Etherscan v2
// unified multi-chain API.
package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pendergraft/chainsource/internal/chains"
)

// DefaultBaseURL is the unified v2 endpoint serving all supported chains.
const DefaultBaseURL = "https://api.etherscan.io/v2/api"

// Client fetches verified contract source and classifies the outcome. It is
// safe for sequential reuse; one Fetch call issues at most two requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURL overrides the API endpoint (used by tests and self-hosted mirrors)
func WithBaseURL(u string) Option {
	return func(client *Client) {
		client.baseURL = u
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(client *Client) {
		client.logger = l
	}
}

// WithRateLimit sets the client-side request rate
func WithRateLimit(rps float64) Option {
	return func(client *Client) {
		client.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates a new client. The free API tier allows 5 requests per second,
// which is the default client-side limit.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(5, 5),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the verified source record for address on chainID. On
// failure the returned error is always a *FetchError whose Kind states what
// the address turned out to be; a returned record always has non-empty
// SourceCode.
func (c *Client) Fetch(ctx context.Context, chainID int64, address string) (*ContractRecord, error) {
	if !chains.Supported(chainID) {
		return nil, &FetchError{Kind: KindUnsupportedChain, ChainID: chainID, Address: address}
	}
	if c.apiKey == "" {
		return nil, &FetchError{Kind: KindInvalidAPIKey, ChainID: chainID, Address: address, Detail: "API key not configured"}
	}

	reqID := uuid.NewString()
	logger := c.logger.With("request_id", reqID, "chain_id", chainID, "address", address)
	logger.Debug("fetching verified source")

	var env envelope
	if ferr := c.call(ctx, chainID, address, url.Values{
		"module": {"contract"},
		"action": {"getsourcecode"},
	}, &env); ferr != nil {
		return nil, ferr
	}

	if env.Status != "1" {
		return nil, c.classifyAPIFailure(chainID, address, &env)
	}

	var results []sourceCodeResult
	if err := json.Unmarshal(env.Result, &results); err != nil || len(results) == 0 {
		return nil, &FetchError{Kind: KindNoContractFound, ChainID: chainID, Address: address}
	}
	entry := results[0]

	if entry.SourceCode == "" {
		// An empty source field covers both wallets and unverified
		// contracts; a bytecode probe tells them apart.
		logger.Debug("empty source, probing for bytecode")
		return nil, c.classifyEmptySource(ctx, chainID, address)
	}

	record := newRecord(chainID, address, &entry)
	logger.Debug("fetched verified source",
		"contract", record.ContractName,
		"compiler", record.CompilerVersion,
		"proxy", record.IsProxy)
	return record, nil
}

// call issues one API request and decodes the envelope. Everything that
// prevents a decodable response maps to a transport-level FetchError.
func (c *Client) call(ctx context.Context, chainID int64, address string, params url.Values, out *envelope) *FetchError {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Kind: KindTransportError, ChainID: chainID, Address: address, Detail: err.Error()}
	}

	params.Set("chainid", strconv.FormatInt(chainID, 10))
	params.Set("address", address)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return &FetchError{Kind: KindTransportError, ChainID: chainID, Address: address, Detail: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Kind: KindTransportError, ChainID: chainID, Address: address, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Kind: KindTransportError, ChainID: chainID, Address: address,
			Detail: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Kind: KindAPIError, ChainID: chainID, Address: address,
			Detail: "malformed response: " + err.Error()}
	}
	return nil
}

// classifyAPIFailure maps a status!="1" envelope to a failure kind. The API
// exposes no stable error codes, so matching the message text is the only
// option; anything unrecognized degrades to KindAPIError with the raw text.
func (c *Client) classifyAPIFailure(chainID int64, address string, env *envelope) *FetchError {
	detail := env.Message
	var resultText string
	if json.Unmarshal(env.Result, &resultText) == nil && resultText != "" {
		detail = resultText
	}

	lower := strings.ToLower(env.Message + " " + resultText)
	switch {
	case strings.Contains(lower, "invalid api key"):
		return &FetchError{Kind: KindInvalidAPIKey, ChainID: chainID, Address: address, Detail: detail}
	case strings.Contains(lower, "max rate limit reached"):
		return &FetchError{Kind: KindRateLimited, ChainID: chainID, Address: address, Detail: detail}
	default:
		return &FetchError{Kind: KindAPIError, ChainID: chainID, Address: address, Detail: detail}
	}
}

// classifyEmptySource resolves an empty-source response into EOA vs.
// unverified contract via an eth_getCode probe. When the probe itself fails
// or is ambiguous the answer is "unverified contract": wrongly telling an
// agent to skip a real contract is worse than a spurious retry.
func (c *Client) classifyEmptySource(ctx context.Context, chainID int64, address string) *FetchError {
	code, err := c.getCode(ctx, chainID, address)
	if err != nil {
		return &FetchError{Kind: KindUnverifiedContract, ChainID: chainID, Address: address,
			Detail: "bytecode probe failed: " + err.Error()}
	}
	if code == "0x" {
		return &FetchError{Kind: KindEOAAddress, ChainID: chainID, Address: address}
	}
	return &FetchError{Kind: KindUnverifiedContract, ChainID: chainID, Address: address}
}

// getCode runs the proxy-module eth_getCode action and returns the hex
// bytecode string ("0x" when the address has no code).
func (c *Client) getCode(ctx context.Context, chainID int64, address string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	params := url.Values{
		"module":  {"proxy"},
		"action":  {"eth_getCode"},
		"tag":     {"latest"},
		"chainid": {strconv.FormatInt(chainID, 10)},
		"address": {address},
		"apikey":  {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var env rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}
	if len(env.Error) > 0 {
		return "", fmt.Errorf("rpc error: %s", env.Error)
	}
	if env.Result == "" {
		return "", fmt.Errorf("empty eth_getCode result")
	}
	return env.Result, nil
}

func newRecord(chainID int64, address string, entry *sourceCodeResult) *ContractRecord {
	runs, err := strconv.Atoi(entry.Runs)
	if err != nil {
		runs = 0
	}

	record := &ContractRecord{
		ChainID:          chainID,
		Address:          address,
		ContractName:     entry.ContractName,
		CompilerVersion:  entry.CompilerVersion,
		OptimizationUsed: entry.OptimizationUsed == "1",
		Runs:             runs,
		EVMVersion:       entry.EVMVersion,
		Library:          entry.Library,
		LicenseType:      entry.LicenseType,
		SourceCode:       entry.SourceCode,
		Proxy:            entry.Proxy,
		SwarmSource:      entry.SwarmSource,
	}
	if entry.Proxy == "1" {
		record.IsProxy = true
		record.ImplementationAddress = entry.Implementation
	}
	return record
}
