package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantmind-br/dirscribe-go/internal/manifest"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// ManifestResult represents the result of processing one manifest source
type ManifestResult struct {
	Source   manifest.Source
	Files    int
	Error    error
	Duration time.Duration
	// Skipped is set when the source never started because the batch stopped early
	Skipped bool
}

// ManifestSummary counts manifest results by outcome
type ManifestSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Summarize counts results by outcome. A skipped source is never counted as failed.
func Summarize(results []ManifestResult) ManifestSummary {
	var s ManifestSummary
	for _, r := range results {
		switch {
		case r.Skipped:
			s.Skipped++
		case r.Error != nil:
			s.Failed++
		default:
			s.Succeeded++
		}
	}
	return s
}

// RunManifest consolidates every source of the manifest into its own output.
// Results are returned in manifest order. Without continue_on_error the first
// failure cancels sources that have not started yet.
func (o *Orchestrator) RunManifest(ctx context.Context, manifestCfg *manifest.Config) ([]ManifestResult, error) {
	startTime := time.Now()
	totalSources := len(manifestCfg.Sources)

	o.logger.Info().
		Int("sources", totalSources).
		Bool("continue_on_error", manifestCfg.Options.ContinueOnError).
		Int("concurrency", manifestCfg.Options.Concurrency).
		Msg("Starting manifest execution")

	results := make([]ManifestResult, totalSources)
	for i, source := range manifestCfg.Sources {
		results[i] = ManifestResult{Source: source, Skipped: true}
	}
	if totalSources == 0 {
		return results, nil
	}

	concurrency := manifestCfg.Options.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var resultsMu sync.Mutex
	var firstError error
	var firstErrorMu sync.Mutex

	var cancelCtx context.Context
	var cancel context.CancelFunc
	if manifestCfg.Options.ContinueOnError {
		cancelCtx = ctx
	} else {
		cancelCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	indexes := make([]int, totalSources)
	for i := range indexes {
		indexes[i] = i
	}

	utils.ParallelForEach(cancelCtx, indexes, concurrency, func(ctx context.Context, idx int) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sourceStart := time.Now()
		source := manifestCfg.Sources[idx]

		o.logger.Info().
			Int("source_idx", idx).
			Str("input", source.Input).
			Str("output", source.Output).
			Int("total", totalSources).
			Msg("Processing source")

		count, err := o.Run(ctx, source.Input, source.Output)
		sourceDuration := time.Since(sourceStart)

		resultsMu.Lock()
		results[idx] = ManifestResult{
			Source:   source,
			Files:    count,
			Error:    err,
			Duration: sourceDuration,
		}
		resultsMu.Unlock()

		if err != nil {
			o.logger.Error().
				Err(err).
				Int("source_idx", idx).
				Str("input", source.Input).
				Dur("duration", sourceDuration).
				Msg("Source consolidation failed")

			firstErrorMu.Lock()
			if firstError == nil {
				firstError = fmt.Errorf("source %s failed: %w", source.Input, err)
			}
			firstErrorMu.Unlock()

			if cancel != nil {
				cancel()
			}
			return err
		}

		o.logger.Info().
			Int("source_idx", idx).
			Str("input", source.Input).
			Int("files", count).
			Dur("duration", sourceDuration).
			Msg("Source consolidation completed")
		return nil
	})

	if ctx.Err() != nil {
		o.logger.Warn().Msg("Manifest execution cancelled")
		return results, ctx.Err()
	}

	summary := Summarize(results)

	o.logger.Info().
		Dur("total_duration", time.Since(startTime)).
		Int("total", totalSources).
		Int("success", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("Manifest execution completed")

	if firstError != nil {
		if !manifestCfg.Options.ContinueOnError {
			o.logger.Warn().Msg("Stopping execution (continue_on_error=false)")
			return results, firstError
		}
		return results, fmt.Errorf("manifest completed with %d/%d failures: %w",
			summary.Failed, totalSources, firstError)
	}

	return results, nil
}
