package app

import (
	"context"

	"github.com/quantmind-br/dirscribe-go/internal/collector"
	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/output"
)

// Collector discovers the files to consolidate beneath a root
type Collector interface {
	Collect(root string) (*collector.Result, error)
}

// ArtifactWriter renders and persists the consolidated artifact
type ArtifactWriter interface {
	Write(ctx context.Context, root string, files []domain.FileEntry, tree output.TreeRenderer, outputPath string) (int, error)
}
