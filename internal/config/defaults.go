package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Output defaults
	DefaultOutputPath = "output.txt"

	// Concurrency defaults
	DefaultWorkers = 5

	// Archive defaults
	DefaultArchiveHost    = "github.com"
	DefaultArchiveTimeout = 10 * time.Minute
	DefaultMaxRetries     = 3

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 24 * time.Hour

	// Server defaults
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 30 * time.Second

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultBranches are tried in order when downloading a repository archive
var DefaultBranches = []string{"main", "master"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dirscribe"
	}
	return filepath.Join(home, ".dirscribe")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
			Fast:    false,
		},
		Archive: ArchiveConfig{
			Host:          DefaultArchiveHost,
			Branches:      append([]string(nil), DefaultBranches...),
			Timeout:       DefaultArchiveTimeout,
			MaxRetries:    DefaultMaxRetries,
			CloneFallback: false,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
