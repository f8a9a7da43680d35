package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pendergraft/chainsource/internal/config"
)

func createConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(createConfigInitCmd())
	cmd.AddCommand(createConfigShowCmd())

	return cmd
}

func createConfigInitCmd() *cobra.Command {
	var chainID int64
	var outputDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create config file",
		Long: `Create a chainsource.toml configuration file in the current directory.

This file stores project-specific defaults like the chain id and output
directory, so repeated fetches don't need flags.

EXAMPLES:
  # Create config with defaults
  chainsource config init

  # Create config for Arbitrum fetches into ./contracts
  chainsource config init --chain 42161 --output ./contracts
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(chainID, outputDir, force)
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain", 1, "default chain id")
	cmd.Flags().StringVar(&outputDir, "output", "", "default output directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config")

	return cmd
}

func createConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}
}

func runConfigInit(chainID int64, outputDir string, force bool) error {
	configPath := "chainsource.toml"

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	content := fmt.Sprintf(`# chainsource project configuration

chain = %d

# Default output directory (empty = ./<address>)
`, chainID)
	if outputDir != "" {
		content += fmt.Sprintf("output_dir = %q\n", outputDir)
	} else {
		content += "# output_dir = \"./contracts\"\n"
	}
	content += "\n# Self-hosted or mirrored explorer endpoint\n# api_base_url = \"https://api.etherscan.io/v2/api\"\n"

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}

func runConfigShow() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	fmt.Println("Effective configuration:")
	fmt.Printf("  API URL:    %s\n", cfg.API.BaseURL)
	fmt.Printf("  Chain:      %d\n", cfg.Fetch.ChainID)
	if cfg.Fetch.OutputDir != "" {
		fmt.Printf("  Output:     %s\n", cfg.Fetch.OutputDir)
	} else {
		fmt.Println("  Output:     ./<address>")
	}
	if key := getAPIKey(cfg); key != "" {
		fmt.Printf("  API key:    %s\n", maskAPIKey(key))
	} else {
		fmt.Println("  API key:    (not set)")
	}
	fmt.Printf("  Rate limit: %.1f req/s\n", cfg.API.RatePerSecond)

	return nil
}
