package collector

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// Collector discovers the source files beneath a root directory
type Collector struct {
	patterns []string
	logger   *utils.Logger
}

// Options contains options for creating a Collector
type Options struct {
	// Ignore is appended to DefaultIgnorePatterns
	Ignore []string
	Logger *utils.Logger
}

// Result is the outcome of a collection
type Result struct {
	Root  string
	Files []domain.FileEntry
	Tree  *Node
}

// New creates a new Collector
func New(opts Options) *Collector {
	patterns := make([]string, 0, len(DefaultIgnorePatterns)+len(opts.Ignore))
	patterns = append(patterns, DefaultIgnorePatterns...)
	for _, p := range opts.Ignore {
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return &Collector{patterns: patterns, logger: opts.Logger}
}

// Collect walks root depth-first in lexical order. Ignored directories are
// skipped with their whole subtree. Files are returned in walk order and the
// tree holds exactly the returned files.
func (c *Collector) Collect(root string) (*Result, error) {
	if !utils.IsDir(root) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRoot, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRoot, root)
	}

	// WalkDir does not descend into a symlinked root
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRoot, root)
	}

	result := &Result{
		Root: absRoot,
		Tree: NewNode(filepath.Base(filepath.Clean(root))),
	}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if path == walkRoot {
			return err
		}
		if err != nil {
			if c.logger != nil {
				c.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if IsIgnored(rel, c.patterns) {
				return fs.SkipDir
			}
			return nil
		}

		if IsIgnored(rel, c.patterns) || !IsSourceFile(d.Name()) {
			return nil
		}

		result.Files = append(result.Files, domain.FileEntry{
			Path:    filepath.Join(absRoot, rel),
			RelPath: rel,
			Name:    d.Name(),
		})
		result.Tree.Add(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	if c.logger != nil {
		c.logger.Debug().Int("count", len(result.Files)).Str("root", root).Msg("Collected source files")
	}
	return result, nil
}
