package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alekLukanen/errs"
	"github.com/spf13/cobra"

	"github.com/tylerdata/taxiPipeline/config"
	"github.com/tylerdata/taxiPipeline/runners"
	"github.com/tylerdata/taxiPipeline/warehouse"
)

const (
	ExitCodeExecuteFailed = 1
	ExitCodeInvalidConfig = 2
	ExitCodeNoInput       = 3
)

const (
	FlagConfig            = "config"
	FlagEnvFile           = "env-file"
	FlagRegisterPartition = "register-partition"
	FlagDryRun            = "dry-run"
)

type cliOptions struct {
	configPath        string
	envFile           string
	registerPartition bool
	dryRun            bool
}

// exitError carries the process exit code out of a cobra command.
type exitError struct {
	code int
	err  error
}

func (obj *exitError) Error() string {
	return obj.err.Error()
}

func (obj *exitError) Unwrap() error {
	return obj.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCodeExecuteFailed)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	options := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "pipeline",
		Short:         "Taxi trip ETL pipeline",
		Long:          "Processes the newest raw taxi trip csv into a date partitioned output and records the run",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&options.configPath, FlagConfig, "c", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&options.envFile, FlagEnvFile, ".env", "env file with PIPELINE_* overrides")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, out, options)
		},
	}
	runCmd.Flags().BoolVar(&options.registerPartition, FlagRegisterPartition, false, "register the new partition with the catalog")
	runCmd.Flags().BoolVar(&options.dryRun, FlagDryRun, false, "discover, load and transform without writing anything")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHistory(cmd, out, options)
		},
	}

	rootCmd.AddCommand(runCmd, historyCmd)
	return rootCmd
}

func loadConfig(cmd *cobra.Command, options *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(options.configPath, options.envFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed(FlagRegisterPartition) {
		cfg.Catalog.RegisterPartition = options.registerPartition
	}
	return cfg, cfg.Validate()
}

func newLogger(out io.Writer, cfg config.LogConfig) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatText {
		return slog.New(slog.NewTextHandler(out, handlerOptions))
	}
	return slog.New(slog.NewJSONHandler(out, handlerOptions))
}

func runPipeline(cmd *cobra.Command, out io.Writer, options *cliOptions) error {
	cfg, err := loadConfig(cmd, options)
	if err != nil {
		slog.New(slog.NewJSONHandler(out, nil)).Error("invalid configuration", slog.String("error", errs.ErrorWithStack(err)))
		return &exitError{code: ExitCodeInvalidConfig, err: err}
	}
	logger := newLogger(out, cfg.Log)
	ctx := cmd.Context()

	wh, err := warehouse.NewWarehouse(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to build the pipeline", slog.String("error", errs.ErrorWithStack(err)))
		return &exitError{code: ExitCodeExecuteFailed, err: err}
	}
	defer wh.Close()

	result, err := wh.Run(ctx, options.dryRun)
	if err != nil {
		logger.Error(
			"pipeline run failed",
			slog.String("runId", result.RunID),
			slog.String("error", errs.ErrorWithStack(err)),
		)
		if errors.Is(err, runners.ErrNoInputFound) {
			return &exitError{code: ExitCodeNoInput, err: err}
		}
		return &exitError{code: ExitCodeExecuteFailed, err: err}
	}

	logger.Info(
		"pipeline run succeeded",
		slog.String("runId", result.RunID),
		slog.String("rawKey", result.RawKey),
		slog.String("processedKey", result.ProcessedKey),
		slog.String("partition", result.Partition.Path()),
		slog.Int("rows", result.Rows),
		slog.Int("logRows", result.LogRows),
		slog.Bool("dryRun", result.DryRun),
	)
	return nil
}

func printHistory(cmd *cobra.Command, out io.Writer, options *cliOptions) error {
	cfg, err := loadConfig(cmd, options)
	if err != nil {
		slog.New(slog.NewJSONHandler(out, nil)).Error("invalid configuration", slog.String("error", errs.ErrorWithStack(err)))
		return &exitError{code: ExitCodeInvalidConfig, err: err}
	}
	logger := newLogger(out, cfg.Log)
	ctx := cmd.Context()

	wh, err := warehouse.NewWarehouse(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to build the pipeline", slog.String("error", errs.ErrorWithStack(err)))
		return &exitError{code: ExitCodeExecuteFailed, err: err}
	}
	defer wh.Close()

	entries, err := wh.History(ctx)
	if err != nil {
		logger.Error("failed to read the run log", slog.String("error", errs.ErrorWithStack(err)))
		return &exitError{code: ExitCodeExecuteFailed, err: err}
	}

	for _, entry := range entries {
		logger.Info(
			"run",
			slog.String("rawKey", entry.RawKey),
			slog.String("processedKey", entry.ProcessedKey),
			slog.String("runTime", entry.RunTime),
		)
	}
	logger.Info("run log read", slog.Int("runs", len(entries)))
	return nil
}
