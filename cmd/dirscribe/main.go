package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/dirscribe-go/internal/app"
	"github.com/quantmind-br/dirscribe-go/internal/cache"
	"github.com/quantmind-br/dirscribe-go/internal/config"
	"github.com/quantmind-br/dirscribe-go/internal/manifest"
	"github.com/quantmind-br/dirscribe-go/internal/server"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
	"github.com/quantmind-br/dirscribe-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	viper.Reset()
	cfgFile, verbose = "", false

	rootCmd := &cobra.Command{
		Use:   "dirscribe",
		Short: "Consolidate a source tree into a single text file",
		Long: `DirScribe walks a local directory or a GitHub repository and writes every
readable source file into one text artifact, preceded by a directory tree.

Remote repositories (https://github.com/owner/repo) are downloaded as branch
archives, trying main and then master.`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          run,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dirscribe/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("input", "i", "", "Local directory or GitHub repository URL")
	rootCmd.Flags().StringP("output", "o", config.DefaultOutputPath, "Output file")
	rootCmd.Flags().Bool("fast", false, "Read files in parallel")
	_ = rootCmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("output.path", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("concurrency.fast", rootCmd.Flags().Lookup("fast"))

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newLogger(cfg *config.Config, w io.Writer) *utils.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  cfg.Logging.Format,
		Output:  w,
		Verbose: verbose,
	})
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	input, _ := cmd.Flags().GetString("input")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:   cfg,
		Verbose:  verbose,
		Progress: cmd.ErrOrStderr(),
		Logger:   newLogger(cfg, cmd.ErrOrStderr()),
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	count, err := orchestrator.Run(ctx, input, cfg.Output.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d files. Output written to %s\n", count, cfg.Output.Path)
	return nil
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Consolidate every source listed in a manifest",
		Long: `Reads a YAML or JSON manifest and writes one artifact per source:

  sources:
    - input: https://github.com/org/service
    - input: ./tools/cli
      output: cli.txt
  options:
    output_dir: ./bundles
    continue_on_error: true
    concurrency: 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			manifestCfg, err := manifest.NewLoader().Load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config:  cfg,
				Verbose: verbose,
				Logger:  newLogger(cfg, cmd.ErrOrStderr()),
			})
			if err != nil {
				return fmt.Errorf("failed to create orchestrator: %w", err)
			}
			defer orchestrator.Close()

			results, err := orchestrator.RunManifest(ctx, manifestCfg)
			out := cmd.OutOrStdout()
			for _, r := range results {
				switch {
				case r.Skipped:
					fmt.Fprintf(out, "Skipped %s\n", r.Source.Input)
				case r.Error != nil:
					fmt.Fprintf(out, "Failed %s: %s\n", r.Source.Input, r.Error)
				default:
					fmt.Fprintf(out, "Processed %d files. Output written to %s\n", r.Files, r.Source.Output)
				}
			}
			summary := app.Summarize(results)
			fmt.Fprintf(out, "%d succeeded, %d failed, %d skipped\n", summary.Succeeded, summary.Failed, summary.Skipped)
			return err
		},
	}

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP job API",
		Long: `Starts an HTTP server accepting consolidation jobs:

  POST /api/clone      {"input": "...", "output": "output.txt"}
  GET  /api/job/{id}   job status
  GET  /healthz        liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config:  cfg,
				Verbose: verbose,
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create orchestrator: %w", err)
			}
			defer orchestrator.Close()

			srv := server.New(server.Options{
				Addr:            cfg.Server.Addr,
				DefaultOutput:   cfg.Output.Path,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				Submitter:       orchestrator,
				Jobs:            orchestrator.Tracker(),
				Logger:          logger.WithComponent("server"),
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the archive download cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			dir := utils.ExpandPath(cfg.Cache.Directory)
			c, err := cache.NewBadgerCache(cache.Options{Directory: dir, Logger: verbose})
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer c.Close()

			removed := c.Size()
			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached archives from %s\n", removed, dir)
			return nil
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
