package domain

import (
	"context"
	"time"
)

// SourceFetcher turns a repository URL into a local directory
type SourceFetcher interface {
	// Fetch downloads and extracts the repository under workDir and returns
	// the path of the extracted root directory
	Fetch(ctx context.Context, repoURL, workDir string) (string, error)
}

// Cache defines the interface for caching downloaded archives
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
