// Package config loads chainsource configuration from the environment and
// an optional project file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// projectConfigFiles is the search order for project config files
var projectConfigFiles = []string{"chainsource.toml", "cs.toml"}

// Config holds all configuration for a chainsource invocation
type Config struct {
	API     APIConfig
	Fetch   FetchConfig
	Logging LoggingConfig
}

// APIConfig holds explorer API settings
type APIConfig struct {
	BaseURL       string
	Key           string
	RatePerSecond float64
}

// FetchConfig holds defaults for the fetch operation
type FetchConfig struct {
	ChainID   int64
	OutputDir string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// ProjectConfig is the project-level TOML configuration
type ProjectConfig struct {
	APIBaseURL string `toml:"api_base_url,omitempty"`
	Chain      int64  `toml:"chain,omitempty"`
	OutputDir  string `toml:"output_dir,omitempty"`
}

// Load builds the effective configuration: environment variables win over the
// project TOML file, which wins over built-in defaults. A .env file in the
// working directory is folded into the environment first, so the Etherscan
// key can live there instead of the shell profile. projectFile overrides the
// default config file search when non-empty.
func Load(projectFile string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:       getEnv("CHAINSOURCE_API_URL", "https://api.etherscan.io/v2/api"),
			Key:           getEnv("ETHERSCAN_API_KEY", ""),
			RatePerSecond: getEnvFloat("CHAINSOURCE_RATE_LIMIT", 5),
		},
		Fetch: FetchConfig{
			ChainID:   getEnvInt64("CHAINSOURCE_CHAIN", 1),
			OutputDir: getEnv("CHAINSOURCE_OUTPUT", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	project, _, err := LoadProject(projectFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if project != nil {
		if cfg.API.BaseURL == "https://api.etherscan.io/v2/api" && project.APIBaseURL != "" {
			cfg.API.BaseURL = project.APIBaseURL
		}
		if os.Getenv("CHAINSOURCE_CHAIN") == "" && project.Chain != 0 {
			cfg.Fetch.ChainID = project.Chain
		}
		if cfg.Fetch.OutputDir == "" && project.OutputDir != "" {
			cfg.Fetch.OutputDir = project.OutputDir
		}
	}

	return cfg, nil
}

// LoadProject loads the project config. When path is empty the well-known
// file names are searched in order. Returns the config, the path it was
// loaded from, and an error (os.ErrNotExist when no file is present).
func LoadProject(path string) (*ProjectConfig, string, error) {
	if path != "" {
		cfg, err := loadProjectFromPath(path)
		return cfg, path, err
	}

	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil {
			cfg, err := loadProjectFromPath(name)
			return cfg, name, err
		}
	}
	return nil, "", os.ErrNotExist
}

func loadProjectFromPath(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ProjectConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
