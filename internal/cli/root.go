package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pendergraft/chainsource/internal/config"
)

var (
	cfgFile string
	apiKey  string
)

// Execute runs the CLI
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:     "chainsource",
		Short:   "Verified smart contract source downloader",
		Long:    `Chainsource downloads verified smart contract source code from block explorers and saves it to a local directory tree.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: chainsource.toml or cs.toml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Etherscan API key")

	// Add subcommands
	rootCmd.AddCommand(createFetchCmd())
	rootCmd.AddCommand(createChainsCmd())
	rootCmd.AddCommand(createAuthCmd())
	rootCmd.AddCommand(createConfigCmd())

	return rootCmd.Execute()
}

// getAPIKey returns the API key from flag, env/.env, or the credentials file
func getAPIKey(cfg *config.Config) string {
	// 1. Command line flag
	if apiKey != "" {
		return apiKey
	}

	// 2. Environment variable or .env (resolved by config.Load)
	if cfg.API.Key != "" {
		return cfg.API.Key
	}

	// 3. Credentials file (~/.chainsource/credentials)
	return getCredential()
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
