package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Archive     ArchiveConfig     `mapstructure:"archive" yaml:"archive"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Collector   CollectorConfig   `mapstructure:"collector" yaml:"collector"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	// Workers bounds parallel file reads inside one job when fast mode is on
	Workers int  `mapstructure:"workers" yaml:"workers"`
	Fast    bool `mapstructure:"fast" yaml:"fast"`
}

// ArchiveConfig contains repository archive download settings
type ArchiveConfig struct {
	Host          string        `mapstructure:"host" yaml:"host"`
	Branches      []string      `mapstructure:"branches" yaml:"branches"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries" yaml:"max_retries"`
	CloneFallback bool          `mapstructure:"clone_fallback" yaml:"clone_fallback"`
}

// CacheConfig contains archive cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// CollectorConfig contains file discovery settings
type CollectorConfig struct {
	// Ignore is appended to the built-in ignore patterns
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

var branchNameRegex = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Archive.Host == "" {
		c.Archive.Host = DefaultArchiveHost
	}
	if len(c.Archive.Branches) == 0 {
		c.Archive.Branches = append([]string(nil), DefaultBranches...)
	}
	for _, b := range c.Archive.Branches {
		if !branchNameRegex.MatchString(b) || strings.Contains(b, "..") {
			return fmt.Errorf("invalid archive.branches entry: %q", b)
		}
	}
	if c.Archive.Timeout < time.Second {
		c.Archive.Timeout = DefaultArchiveTimeout
	}
	if c.Archive.MaxRetries < 0 {
		c.Archive.MaxRetries = DefaultMaxRetries
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ShutdownTimeout < time.Second {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	return nil
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
