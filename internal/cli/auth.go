package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Credentials stores API keys per explorer endpoint
type Credentials struct {
	Endpoints map[string]EndpointCredential `yaml:"endpoints"`
}

// EndpointCredential stores the credential for a single endpoint
type EndpointCredential struct {
	APIKey string `yaml:"api_key"`
}

// defaultEndpoint keys the credentials entry for the public Etherscan API.
const defaultEndpoint = "https://api.etherscan.io/v2/api"

func createAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(createAuthLoginCmd())
	cmd.AddCommand(createAuthLogoutCmd())
	cmd.AddCommand(createAuthStatusCmd())

	return cmd
}

func createAuthLoginCmd() *cobra.Command {
	var apiKeyFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the Etherscan API key",
		Long: `Save an Etherscan API key for later invocations.

The key is stored in ~/.chainsource/credentials with secure file permissions.

EXAMPLES:
  # Interactive login (prompts for the key)
  chainsource auth login

  # Non-interactive login (for CI)
  chainsource auth login --api-key $ETHERSCAN_API_KEY
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(apiKeyFlag)
		},
	}

	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key (prompts if not provided)")

	return cmd
}

func createAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear saved credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogout()
		},
	}
}

func createAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthStatus()
		},
	}
}

func runAuthLogin(apiKeyInput string) error {
	key := apiKeyInput
	if key == "" {
		fmt.Print("Enter Etherscan API key: ")

		// Read without echo when attached to a terminal
		stdinFd := int(os.Stdin.Fd())
		if term.IsTerminal(stdinFd) {
			byteKey, err := term.ReadPassword(stdinFd)
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			key = string(byteKey)
		} else {
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			key = strings.TrimSpace(line)
		}
	}

	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if err := saveCredential(key); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("✅ API key saved (key: %s)\n", maskAPIKey(key))
	fmt.Printf("   Credentials saved to %s\n", credentialsFilePath())

	return nil
}

func runAuthLogout() error {
	path := credentialsFilePath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	fmt.Println("✅ Credentials cleared")
	return nil
}

func runAuthStatus() error {
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No API key saved")
			fmt.Println("\nRun 'chainsource auth login' to save one")
			return nil
		}
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	if len(creds.Endpoints) == 0 {
		fmt.Println("No API key saved")
		fmt.Println("\nRun 'chainsource auth login' to save one")
		return nil
	}

	fmt.Println("Saved credentials:")
	for endpoint, cred := range creds.Endpoints {
		fmt.Printf("  • %s (key: %s)\n", endpoint, maskAPIKey(cred.APIKey))
	}

	return nil
}

// Credential file helpers

func credentialsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chainsource"
	}
	return filepath.Join(home, ".chainsource")
}

func credentialsFilePath() string {
	return filepath.Join(credentialsDir(), "credentials")
}

func loadCredentials() (*Credentials, error) {
	path := credentialsFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	if creds.Endpoints == nil {
		creds.Endpoints = make(map[string]EndpointCredential)
	}

	return &creds, nil
}

func saveCredential(apiKey string) error {
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			creds = &Credentials{Endpoints: make(map[string]EndpointCredential)}
		} else {
			return err
		}
	}

	creds.Endpoints[defaultEndpoint] = EndpointCredential{APIKey: apiKey}

	dir := credentialsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	return os.WriteFile(credentialsFilePath(), data, 0600) // Secure permissions
}

func getCredential() string {
	creds, err := loadCredentials()
	if err != nil {
		return ""
	}
	if cred, ok := creds.Endpoints[defaultEndpoint]; ok {
		return cred.APIKey
	}
	return ""
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
