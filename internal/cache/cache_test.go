package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
)

func newMemoryCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// TestDefaultOptions tests default options
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, opts.Directory)
	assert.False(t, opts.InMemory)
	assert.False(t, opts.Logger)
}

// TestGenerateKey tests cache key generation
func TestGenerateKey(t *testing.T) {
	a := "https://github.com/o/r/archive/refs/heads/main.zip"

	assert.Equal(t, GenerateKey(a), GenerateKey(a))
	assert.Len(t, GenerateKey(a), 64)
	assert.NotEqual(t, GenerateKey(a), GenerateKey("https://github.com/o/r/archive/refs/heads/master.zip"))
	assert.Equal(t, GenerateKey(a), GenerateKey("https://GITHUB.com/o/r/archive/refs/heads/main.zip"))
	assert.Len(t, GenerateKey(":not-a-url"), 64)
}

// TestArchiveKey tests archive key generation
func TestArchiveKey(t *testing.T) {
	key := ArchiveKey("https://github.com/o/r/archive/refs/heads/main.zip")
	assert.Contains(t, key, "archive:")
	assert.Len(t, key, len("archive:")+64)
}

// TestNormalizeForKey tests URL normalization
func TestNormalizeForKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase host", "https://GITHUB.COM/o/r", "https://github.com/o/r"},
		{"removes trailing slash", "https://github.com/o/r/", "https://github.com/o/r"},
		{"removes fragment", "https://github.com/o/r#readme", "https://github.com/o/r"},
		{"removes default port", "https://github.com:443/o/r", "https://github.com/o/r"},
		{"cleans path", "https://github.com/o/./x/../r", "https://github.com/o/r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeForKey(tt.input))
		})
	}
}

// TestNewBadgerCache tests creating cache
func TestNewBadgerCache(t *testing.T) {
	t.Run("creates in-memory cache", func(t *testing.T) {
		c, err := NewBadgerCache(Options{InMemory: true})
		require.NoError(t, err)
		require.NoError(t, c.Close())
	})

	t.Run("creates file-based cache in directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache")
		c, err := NewBadgerCache(Options{Directory: dir})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("creates file-based cache in default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		c, err := NewBadgerCache(Options{})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = os.Stat(filepath.Join(home, ".dirscribe", "cache"))
		assert.NoError(t, err)
	})
}

// TestBadgerCache_GetSet tests storing and retrieving values
func TestBadgerCache_GetSet(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()
	key := ArchiveKey("https://github.com/o/r/archive/refs/heads/main.zip")

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, key, []byte("PK\x03\x04zip"), time.Hour))

	value, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04zip"), value)

	require.NoError(t, c.Set(ctx, key, []byte("updated"), 0))
	value, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), value)
}

// TestBadgerCache_Delete tests removing values
func TestBadgerCache_Delete(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

// TestBadgerCache_ClearAndSize tests bulk operations
func TestBadgerCache_ClearAndSize(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("https://github.com/o/r%d", i), []byte("v"), time.Hour))
	}
	assert.Equal(t, int64(3), c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

// TestBadgerCache_ConcurrentAccess tests concurrent reads and writes
func TestBadgerCache_ConcurrentAccess(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("https://github.com/o/r%d", i)
			assert.NoError(t, c.Set(ctx, key, []byte(key), time.Hour))
			value, err := c.Get(ctx, key)
			assert.NoError(t, err)
			assert.Equal(t, []byte(key), value)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(10), c.Size())
}
