package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "empty config is filled with defaults",
			modify: func(c *Config) {
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultOutputPath, c.Output.Path)
				assert.Equal(t, DefaultWorkers, c.Concurrency.Workers)
				assert.Equal(t, DefaultArchiveHost, c.Archive.Host)
				assert.Equal(t, []string{"main", "master"}, c.Archive.Branches)
				assert.Equal(t, DefaultArchiveTimeout, c.Archive.Timeout)
				assert.Equal(t, DefaultCacheTTL, c.Cache.TTL)
				assert.Equal(t, DefaultServerAddr, c.Server.Addr)
				assert.Equal(t, DefaultShutdownTimeout, c.Server.ShutdownTimeout)
			},
		},
		{
			name: "custom branches are kept in order",
			modify: func(c *Config) {
				c.Archive.Branches = []string{"develop", "trunk"}
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []string{"develop", "trunk"}, c.Archive.Branches)
			},
		},
		{
			name: "branch with traversal is rejected",
			modify: func(c *Config) {
				c.Archive.Branches = []string{"main", "../../etc"}
			},
			wantErr: true,
		},
		{
			name: "branch with spaces is rejected",
			modify: func(c *Config) {
				c.Archive.Branches = []string{"my branch"}
			},
			wantErr: true,
		},
		{
			name: "negative retries defaults",
			modify: func(c *Config) {
				c.Archive.MaxRetries = -1
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultMaxRetries, c.Archive.MaxRetries)
			},
		},
		{
			name: "zero retries is allowed",
			modify: func(c *Config) {
				c.Archive.MaxRetries = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Archive.MaxRetries)
			},
		},
		{
			name: "archive timeout below minimum defaults",
			modify: func(c *Config) {
				c.Archive.Timeout = 10 * time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultArchiveTimeout, c.Archive.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestDefault tests default configuration values
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "output.txt", cfg.Output.Path)
	assert.Equal(t, DefaultWorkers, cfg.Concurrency.Workers)
	assert.False(t, cfg.Concurrency.Fast)
	assert.Equal(t, "github.com", cfg.Archive.Host)
	assert.Equal(t, []string{"main", "master"}, cfg.Archive.Branches)
	assert.False(t, cfg.Archive.CloneFallback)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheDir(), cfg.Cache.Directory)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "pretty", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestDefault_BranchesAreCopied(t *testing.T) {
	cfg := Default()
	cfg.Archive.Branches[0] = "changed"

	assert.Equal(t, "main", DefaultBranches[0])
}

// TestConfigDir tests the config directory layout
func TestConfigDir(t *testing.T) {
	assert.True(t, strings.HasSuffix(ConfigDir(), ".dirscribe"))
	assert.Equal(t, filepath.Join(ConfigDir(), "cache"), CacheDir())
	assert.Equal(t, filepath.Join(ConfigDir(), "config.yaml"), ConfigFilePath())
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

// isolate gives Load a clean global viper, HOME and working directory
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

// TestLoad_MissingConfig tests loading with no config file
func TestLoad_MissingConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	assert.Equal(t, []string{"main", "master"}, cfg.Archive.Branches)
}

// TestLoad_WithInvalidConfigFile tests loading with invalid config file
func TestLoad_WithInvalidConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("invalid: yaml: content: ["), 0644))

	cfg, err := Load("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

const validConfig = `
output:
  path: "bundle.txt"

archive:
  branches: ["trunk", "main"]
  clone_fallback: true

collector:
  ignore: ["generated"]

logging:
  level: "debug"
`

func assertValidConfig(t *testing.T, cfg *Config) {
	t.Helper()
	assert.Equal(t, "bundle.txt", cfg.Output.Path)
	assert.Equal(t, []string{"trunk", "main"}, cfg.Archive.Branches)
	assert.True(t, cfg.Archive.CloneFallback)
	assert.Equal(t, []string{"generated"}, cfg.Collector.Ignore)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// TestLoad_WithValidConfigFile tests loading config.yaml from the working directory
func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(validConfig), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assertValidConfig(t, cfg)
}

// TestLoad_ExplicitConfigFile tests that a named file replaces the lookup
func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  path: ignored.txt\n"), 0644))
	custom := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(custom, []byte(validConfig), 0644))

	cfg, err := Load(custom)
	require.NoError(t, err)
	assertValidConfig(t, cfg)
}

// TestLoad_ExplicitConfigFileMissing tests that a named file must exist
func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoadWithEnvironmentVariable tests loading with environment variable
func TestLoadWithEnvironmentVariable(t *testing.T) {
	isolate(t)
	t.Setenv("DIRSCRIBE_SERVER_ADDR", ":9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestConfig_YAML(t *testing.T) {
	cfg := Default()

	data, err := cfg.YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "archive")
	assert.Contains(t, decoded, "server")
	assert.Contains(t, string(data), "clone_fallback: false")
}

// TestConstants tests constant values
func TestConstants(t *testing.T) {
	assert.Greater(t, DefaultWorkers, 0)
	assert.Greater(t, DefaultArchiveTimeout, time.Second)
	assert.Greater(t, DefaultCacheTTL, time.Minute)
	assert.GreaterOrEqual(t, DefaultMaxRetries, 0)
}
