// Package chains holds the static registry of explorer-supported networks.
//
// The Etherscan v2 API serves every supported network from a single endpoint
// parameterized by chain id, so the registry is a constant lookup table built
// once at startup and never mutated.
package chains

import "sort"

// Chain describes one supported network.
type Chain struct {
	ID          int64
	DisplayName string
}

var registry = map[int64]Chain{
	1:        {ID: 1, DisplayName: "Ethereum Mainnet"},
	10:       {ID: 10, DisplayName: "OP Mainnet"},
	56:       {ID: 56, DisplayName: "BNB Smart Chain"},
	100:      {ID: 100, DisplayName: "Gnosis"},
	137:      {ID: 137, DisplayName: "Polygon"},
	250:      {ID: 250, DisplayName: "Fantom Opera"},
	8453:     {ID: 8453, DisplayName: "Base"},
	17000:    {ID: 17000, DisplayName: "Holesky Testnet"},
	42161:    {ID: 42161, DisplayName: "Arbitrum One"},
	43114:    {ID: 43114, DisplayName: "Avalanche C-Chain"},
	59144:    {ID: 59144, DisplayName: "Linea"},
	81457:    {ID: 81457, DisplayName: "Blast"},
	534352:   {ID: 534352, DisplayName: "Scroll"},
	11155111: {ID: 11155111, DisplayName: "Sepolia Testnet"},
}

// Get retrieves a chain by id.
func Get(id int64) (Chain, bool) {
	c, ok := registry[id]
	return c, ok
}

// Supported reports whether the chain id is in the registry.
func Supported(id int64) bool {
	_, ok := registry[id]
	return ok
}

// All returns every registered chain, sorted by id for stable display.
func All() []Chain {
	chains := make([]Chain, 0, len(registry))
	for _, c := range registry {
		chains = append(chains, c)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ID < chains[j].ID })
	return chains
}
