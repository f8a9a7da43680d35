package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pendergraft/chainsource/internal/chains"
	"github.com/pendergraft/chainsource/internal/config"
	"github.com/pendergraft/chainsource/internal/etherscan"
	"github.com/pendergraft/chainsource/internal/source"
	"github.com/pendergraft/chainsource/internal/validation"
	"github.com/pendergraft/chainsource/internal/writer"
)

func createFetchCmd() *cobra.Command {
	var output string
	var chainID int64

	cmd := &cobra.Command{
		Use:   "fetch <address>",
		Short: "Download verified contract source to a local directory",
		Long: `Download the verified source code for a contract address.

Multi-file contracts keep their compilation layout; a metadata.json
descriptor is written next to the sources.

EXAMPLES:
  # Fetch from Ethereum mainnet
  chainsource fetch 0xdAC17F958D2ee523a2206206994597C13D831ec7

  # Fetch from another chain
  chainsource fetch 0x... --chain 42161

  # Fetch to a specific directory
  chainsource fetch 0x... --output ./contracts/usdt

  # List supported chains
  chainsource chains
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(args[0], chainID, output)
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain", 0, "chain id (default 1, or the project config value)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default ./<address>)")

	return cmd
}

func runFetch(address string, chainID int64, output string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := setupLogger(cfg)

	address = validation.NormalizeAddress(address)
	if err := validation.ValidateAddress(address); err != nil {
		return err
	}
	if chainID == 0 {
		chainID = cfg.Fetch.ChainID
	}
	if err := validation.ValidateChainID(chainID); err != nil {
		return err
	}

	client := etherscan.New(getAPIKey(cfg),
		etherscan.WithBaseURL(cfg.API.BaseURL),
		etherscan.WithRateLimit(cfg.API.RatePerSecond),
		etherscan.WithLogger(logger),
	)

	record, err := client.Fetch(context.Background(), chainID, address)
	if err != nil {
		return renderFetchError(err)
	}

	files := source.Decode(record.SourceCode)

	outDir := output
	if outDir == "" {
		outDir = cfg.Fetch.OutputDir
	}
	if outDir == "" {
		outDir = "./" + address
	}

	written, err := writer.Save(outDir, record, files)
	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}

	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	if pretty {
		fmt.Printf("📦 %s (%s)\n", record.ContractName, record.CompilerVersion)
		if record.IsProxy {
			fmt.Printf("   proxy → implementation %s\n", record.ImplementationAddress)
		}
	}
	for _, path := range written {
		if pretty {
			fmt.Printf("  ✓ %s\n", relOrAbs(path))
		} else {
			fmt.Println(path)
		}
	}
	if pretty {
		fmt.Printf("\n✅ %d files saved to %s\n", len(written), outDir)
	}

	return nil
}

// renderFetchError turns a classified failure into one actionable line. The
// kinds matter to callers: automated agents decide retry/skip/report from the
// wording here.
func renderFetchError(err error) error {
	var ferr *etherscan.FetchError
	if !errors.As(err, &ferr) {
		return err
	}

	switch ferr.Kind {
	case etherscan.KindUnsupportedChain:
		return fmt.Errorf("chain %d is not supported (run 'chainsource chains' for the list)", ferr.ChainID)
	case etherscan.KindInvalidAPIKey:
		return fmt.Errorf("invalid or missing API key (set ETHERSCAN_API_KEY or run 'chainsource auth login')")
	case etherscan.KindRateLimited:
		return fmt.Errorf("rate limited by the explorer API, try again shortly")
	case etherscan.KindNoContractFound:
		return fmt.Errorf("no contract found at %s on %s", ferr.Address, chainName(ferr.ChainID))
	case etherscan.KindEOAAddress:
		return fmt.Errorf("%s is an externally owned account (wallet), not a contract", ferr.Address)
	case etherscan.KindUnverifiedContract:
		return fmt.Errorf("contract at %s has no verified source published", ferr.Address)
	case etherscan.KindTransportError:
		return fmt.Errorf("could not reach the explorer API: %s", ferr.Detail)
	default:
		return fmt.Errorf("explorer API error: %s", ferr.Detail)
	}
}

func chainName(id int64) string {
	if c, ok := chains.Get(id); ok {
		return c.DisplayName
	}
	return fmt.Sprintf("chain %d", id)
}

func relOrAbs(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
