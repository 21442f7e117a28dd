package manifest

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Config represents the complete manifest configuration
type Config struct {
	Sources []Source `yaml:"sources" json:"sources"`
	Options Options  `yaml:"options" json:"options"`
}

// Source is one input to consolidate
type Source struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Options represents global manifest options
type Options struct {
	ContinueOnError bool   `yaml:"continue_on_error" json:"continue_on_error"`
	OutputDir       string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Validate validates the manifest configuration.
// Outputs are compared after cleaning, so "a.txt" and "./a.txt" collide.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]int, len(c.Sources))
	for i, src := range c.Sources {
		if strings.TrimSpace(src.Input) == "" {
			return fmt.Errorf("source %d: %w", i, ErrEmptyInput)
		}
		if src.Output == "" {
			continue
		}
		key := filepath.Clean(src.Output)
		if j, ok := seen[key]; ok {
			return fmt.Errorf("sources %d and %d (%s): %w", j, i, key, ErrDuplicateOutput)
		}
		seen[key] = i
	}
	return nil
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		ContinueOnError: false,
		OutputDir:       ".",
		Concurrency:     1,
	}
}

// OutputName derives an artifact file name from an input path or URL
func OutputName(input string) string {
	name := strings.ReplaceAll(strings.TrimSpace(input), "\\", "/")
	name = strings.TrimSuffix(path.Base(strings.TrimRight(name, "/")), ".git")
	if name == "" || name == "." || name == ".." {
		name = "output"
	}
	return name + ".txt"
}
