package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "https://api.etherscan.io/v2/api", cfg.API.BaseURL)
	assert.Equal(t, int64(1), cfg.Fetch.ChainID)
	assert.Equal(t, float64(5), cfg.API.RatePerSecond)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CHAINSOURCE_API_URL", "http://localhost:9999/api")
	t.Setenv("CHAINSOURCE_CHAIN", "137")
	t.Setenv("ETHERSCAN_API_KEY", "env-key")
	t.Setenv("CHAINSOURCE_RATE_LIMIT", "2.5")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/api", cfg.API.BaseURL)
	assert.Equal(t, int64(137), cfg.Fetch.ChainID)
	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, 2.5, cfg.API.RatePerSecond)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ETHERSCAN_API_KEY=dotenv-key\n"), 0600))
	chdir(t, dir)
	// godotenv only fills variables absent from the environment.
	t.Setenv("ETHERSCAN_API_KEY", "placeholder")
	os.Unsetenv("ETHERSCAN_API_KEY")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.API.Key)
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	project := "chain = 42161\noutput_dir = \"./contracts\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chainsource.toml"), []byte(project), 0644))
	chdir(t, dir)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, int64(42161), cfg.Fetch.ChainID)
	assert.Equal(t, "./contracts", cfg.Fetch.OutputDir)
}

func TestLoad_EnvWinsOverProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chainsource.toml"), []byte("chain = 42161\n"), 0644))
	chdir(t, dir)
	t.Setenv("CHAINSOURCE_CHAIN", "10")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.Fetch.ChainID)
}

func TestLoadProject_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chainsource.toml")
	require.NoError(t, os.WriteFile(path, []byte("chain = [broken"), 0644))

	_, _, err := LoadProject(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing TOML")
}

func TestLoadProject_NotFound(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := LoadProject("")

	assert.True(t, os.IsNotExist(err))
}
