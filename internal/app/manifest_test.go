package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/manifest"
)

func manifestFixture(t *testing.T) (ok1, ok2, missing, outDir string) {
	t.Helper()
	base := t.TempDir()
	ok1 = filepath.Join(base, "alpha")
	ok2 = filepath.Join(base, "beta")
	writeTree(t, ok1, map[string]string{"main.go": "package main\n"})
	writeTree(t, ok2, map[string]string{"a.py": "a\n", "lib/b.py": "b\n"})
	return ok1, ok2, filepath.Join(base, "missing"), filepath.Join(base, "out")
}

func TestOrchestrator_RunManifest(t *testing.T) {
	ok1, ok2, _, outDir := manifestFixture(t)
	o := newTestOrchestrator(t, OrchestratorOptions{})

	cfg := &manifest.Config{
		Sources: []manifest.Source{
			{Input: ok1, Output: filepath.Join(outDir, "alpha.txt")},
			{Input: ok2, Output: filepath.Join(outDir, "beta.txt")},
		},
		Options: manifest.Options{Concurrency: 2},
	}

	results, err := o.RunManifest(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, ok1, results[0].Source.Input)
	assert.Equal(t, 1, results[0].Files)
	assert.Equal(t, 2, results[1].Files)
	for _, r := range results {
		assert.NoError(t, r.Error)
		assert.False(t, r.Skipped)
		_, statErr := os.Stat(r.Source.Output)
		assert.NoError(t, statErr)
	}
}

func TestOrchestrator_RunManifestStopsOnError(t *testing.T) {
	ok1, _, missing, outDir := manifestFixture(t)
	o := newTestOrchestrator(t, OrchestratorOptions{})

	cfg := &manifest.Config{
		Sources: []manifest.Source{
			{Input: missing, Output: filepath.Join(outDir, "missing.txt")},
			{Input: ok1, Output: filepath.Join(outDir, "alpha.txt")},
		},
		Options: manifest.Options{Concurrency: 1},
	}

	results, err := o.RunManifest(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRoot)
	assert.Contains(t, err.Error(), missing)

	assert.ErrorIs(t, results[0].Error, domain.ErrInvalidRoot)
	assert.True(t, results[1].Skipped)
	assert.Equal(t, ManifestSummary{Failed: 1, Skipped: 1}, Summarize(results))

	_, statErr := os.Stat(filepath.Join(outDir, "alpha.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrchestrator_RunManifestContinueOnError(t *testing.T) {
	ok1, _, missing, outDir := manifestFixture(t)
	o := newTestOrchestrator(t, OrchestratorOptions{})

	cfg := &manifest.Config{
		Sources: []manifest.Source{
			{Input: missing, Output: filepath.Join(outDir, "missing.txt")},
			{Input: ok1, Output: filepath.Join(outDir, "alpha.txt")},
		},
		Options: manifest.Options{Concurrency: 1, ContinueOnError: true},
	}

	results, err := o.RunManifest(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1/2 failures")
	assert.ErrorIs(t, err, domain.ErrInvalidRoot)

	assert.Error(t, results[0].Error)
	assert.NoError(t, results[1].Error)
	assert.Equal(t, 1, results[1].Files)
	assert.Equal(t, ManifestSummary{Succeeded: 1, Failed: 1}, Summarize(results))
}

func TestOrchestrator_RunManifestCancelled(t *testing.T) {
	ok1, _, _, outDir := manifestFixture(t)
	o := newTestOrchestrator(t, OrchestratorOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &manifest.Config{
		Sources: []manifest.Source{{Input: ok1, Output: filepath.Join(outDir, "alpha.txt")}},
	}

	results, err := o.RunManifest(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, results[0].Skipped)
}

func TestOrchestrator_RunManifestEmpty(t *testing.T) {
	o := newTestOrchestrator(t, OrchestratorOptions{})

	results, err := o.RunManifest(context.Background(), &manifest.Config{})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarize(t *testing.T) {
	results := []ManifestResult{
		{},
		{Error: errors.New("boom")},
		{Skipped: true},
		{Skipped: true},
		{},
	}

	assert.Equal(t, ManifestSummary{Succeeded: 2, Failed: 1, Skipped: 2}, Summarize(results))
	assert.Equal(t, ManifestSummary{}, Summarize(nil))
}
