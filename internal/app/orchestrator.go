package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/quantmind-br/dirscribe-go/internal/archive"
	"github.com/quantmind-br/dirscribe-go/internal/cache"
	"github.com/quantmind-br/dirscribe-go/internal/collector"
	"github.com/quantmind-br/dirscribe-go/internal/config"
	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/jobs"
	"github.com/quantmind-br/dirscribe-go/internal/output"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// Orchestrator runs consolidations synchronously or as tracked background jobs
type Orchestrator struct {
	config    *config.Config
	fetcher   domain.SourceFetcher
	collector Collector
	writer    ArtifactWriter
	tracker   *jobs.Tracker
	cache     domain.Cache
	logger    *utils.Logger
	wg        sync.WaitGroup
}

// OrchestratorOptions contains options for creating an orchestrator.
// Nil components are built from Config.
type OrchestratorOptions struct {
	Config  *config.Config
	Verbose bool
	// Progress receives a progress bar while files are read
	Progress  io.Writer
	Logger    *utils.Logger
	Fetcher   domain.SourceFetcher
	Collector Collector
	Writer    ArtifactWriter
	Tracker   *jobs.Tracker
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := "info"
		logFormat := "pretty"
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		if opts.Verbose {
			logLevel = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	o := &Orchestrator{
		config:    cfg,
		fetcher:   opts.Fetcher,
		collector: opts.Collector,
		writer:    opts.Writer,
		tracker:   opts.Tracker,
		logger:    logger,
	}

	if o.fetcher == nil {
		if cfg.Cache.Enabled {
			c, err := cache.NewBadgerCache(cache.Options{
				Directory: utils.ExpandPath(cfg.Cache.Directory),
				Logger:    opts.Verbose,
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Archive cache unavailable, continuing without it")
			} else {
				o.cache = c
			}
		}

		o.fetcher = archive.NewFetcher(archive.Options{
			Host:          cfg.Archive.Host,
			Branches:      cfg.Archive.Branches,
			Timeout:       cfg.Archive.Timeout,
			MaxRetries:    cfg.Archive.MaxRetries,
			Cache:         o.cache,
			CacheTTL:      cfg.Cache.TTL,
			CloneFallback: cfg.Archive.CloneFallback,
			Logger:        logger.WithComponent("archive"),
		})
	}

	if o.collector == nil {
		o.collector = collector.New(collector.Options{
			Ignore: cfg.Collector.Ignore,
			Logger: logger.WithComponent("collector"),
		})
	}

	if o.writer == nil {
		o.writer = output.NewWriter(output.WriterOptions{
			Parallel: cfg.Concurrency.Fast,
			Workers:  cfg.Concurrency.Workers,
			Progress: opts.Progress,
			Logger:   logger.WithComponent("output"),
		})
	}

	if o.tracker == nil {
		o.tracker = jobs.NewTracker(jobs.TrackerOptions{Logger: logger.WithComponent("jobs")})
	}

	return o, nil
}

// Tracker returns the job registry backing Submit
func (o *Orchestrator) Tracker() *jobs.Tracker {
	return o.tracker
}

// Run consolidates input into outputPath and returns the number of files written.
// A remote input is fetched into a fresh temporary directory that is removed
// before Run returns, whatever the outcome.
func (o *Orchestrator) Run(ctx context.Context, input, outputPath string) (int, error) {
	startTime := time.Now()
	if outputPath == "" {
		outputPath = o.config.Output.Path
	}

	logger := o.logger.WithSource(input)
	logger.Info().Str("output", outputPath).Msg("Starting consolidation")

	root := input
	if DetectSource(input, o.config.Archive.Host) == SourceRemote {
		tmpDir, err := os.MkdirTemp("", "repo-*")
		if err != nil {
			return 0, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(tmpDir); err != nil {
				logger.Warn().Err(err).Str("dir", tmpDir).Msg("Failed to remove temp dir")
			}
		}()

		root, err = o.fetcher.Fetch(ctx, input, tmpDir)
		if err != nil {
			return 0, err
		}
	}

	result, err := o.collector.Collect(root)
	if err != nil {
		return 0, err
	}

	count, err := o.writer.Write(ctx, root, result.Files, result.Tree, outputPath)
	if err != nil {
		return 0, err
	}

	logger.Info().
		Int("files", count).
		Dur("duration", time.Since(startTime)).
		Msg("Consolidation completed")

	return count, nil
}

// Submit registers a job and runs it on its own goroutine.
// Progress is only observable through the tracker.
func (o *Orchestrator) Submit(input, outputPath string) string {
	if outputPath == "" {
		outputPath = o.config.Output.Path
	}

	id := o.tracker.Create()

	o.wg.Add(1)
	go o.runJob(id, input, outputPath)

	return id
}

func (o *Orchestrator) runJob(id, input, outputPath string) {
	defer o.wg.Done()
	logger := o.logger.WithJob(id)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Job panicked")
			o.tracker.Update(id, domain.JobFailed, "Failed", "", 0, fmt.Sprintf("panic: %v", r))
		}
	}()

	o.tracker.Update(id, domain.JobRunning, "Processing...", "", 0, "")

	count, err := o.Run(context.Background(), input, outputPath)
	if err != nil {
		logger.Error().Err(err).Msg("Job failed")
		o.tracker.Update(id, domain.JobFailed, "Failed", "", 0, err.Error())
		return
	}

	o.tracker.Update(id, domain.JobCompleted, "Completed", outputPath, count, "")
}

// Wait blocks until every submitted job has finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close waits for running jobs, then releases the archive cache
func (o *Orchestrator) Close() error {
	o.Wait()
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}
