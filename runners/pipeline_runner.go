package runners

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/google/uuid"

	arrowops "github.com/tylerdata/taxiPipeline/arrowOps"
	"github.com/tylerdata/taxiPipeline/catalog"
	"github.com/tylerdata/taxiPipeline/elements"
	"github.com/tylerdata/taxiPipeline/operations"
	"github.com/tylerdata/taxiPipeline/partitionFuncs"
	"github.com/tylerdata/taxiPipeline/storage"
)

const DefaultRawSuffix = ".csv"

type RunnerOptions struct {
	Bucket          string
	RawPrefix       string
	RawSuffix       string
	ProcessedPrefix string
	OutputFormat    operations.OutputFormat
	DryRun          bool
}

type RunResult struct {
	RunID            string
	RawKey           string
	ProcessedKey     string
	Partition        elements.PartitionKey
	RunTime          string
	Rows             int
	LogRows          int
	QueryExecutionID string
	DryRun           bool
}

/*
* Runner executes one discover, load, transform, publish, log run and then
* registers the partition when a registrar is configured. It keeps no state
* between runs. A failure aborts the run right away without undoing earlier
* steps, so an output can be published without a matching run log row.
 */
type Runner struct {
	logger    *slog.Logger
	allocator *memory.GoAllocator

	objectStorage storage.IObjectStorage
	runLogStorage storage.IRunLogStorage
	registrar     catalog.IPartitionRegistrar
	clock         partitionFuncs.Clock

	dataset     *elements.Dataset
	transformer elements.Transformer

	options RunnerOptions
}

func NewRunner(
	logger *slog.Logger,
	allocator *memory.GoAllocator,
	objectStorage storage.IObjectStorage,
	runLogStorage storage.IRunLogStorage,
	dataset *elements.Dataset,
	options RunnerOptions,
) (*Runner, error) {
	if options.Bucket == "" {
		return nil, fmt.Errorf("%w| bucket is required", ErrRunnerInvalid)
	}
	if options.RawPrefix == "" || options.ProcessedPrefix == "" {
		return nil, fmt.Errorf("%w| raw and processed prefixes are required", ErrRunnerInvalid)
	}
	if err := dataset.IsValid(); err != nil {
		return nil, err
	}
	if options.RawSuffix == "" {
		options.RawSuffix = DefaultRawSuffix
	}
	if options.OutputFormat == "" {
		options.OutputFormat = operations.OutputFormatCSV
	}

	return &Runner{
		logger:        logger,
		allocator:     allocator,
		objectStorage: objectStorage,
		runLogStorage: runLogStorage,
		clock:         partitionFuncs.SystemClock{},
		dataset:       dataset,
		transformer:   operations.FarePerMileTransformer(dataset),
		options:       options,
	}, nil
}

// SetRegistrar enables partition registration after the log update.
func (obj *Runner) SetRegistrar(registrar catalog.IPartitionRegistrar) *Runner {
	obj.registrar = registrar
	return obj
}

func (obj *Runner) SetClock(clock partitionFuncs.Clock) *Runner {
	obj.clock = clock
	return obj
}

func (obj *Runner) SetTransformer(transformer elements.Transformer) *Runner {
	obj.transformer = transformer
	return obj
}

// WithDryRun returns a copy of the runner that skips publish, log and register.
func (obj *Runner) WithDryRun() *Runner {
	runner := *obj
	runner.options.DryRun = true
	return &runner
}

func (obj *Runner) Run(ctx context.Context) (RunResult, error) {
	result := RunResult{RunID: uuid.NewString(), DryRun: obj.options.DryRun}
	logger := obj.logger.With(slog.String("runId", result.RunID))
	start := time.Now()

	// discover
	latest, err := operations.DiscoverLatest(
		ctx, logger, obj.objectStorage, obj.options.Bucket, obj.options.RawPrefix, obj.options.RawSuffix,
	)
	if err != nil {
		if errors.Is(err, operations.ErrNoInputFound) {
			return result, newPipelineError(ErrNoInputFound, err)
		}
		return result, newPipelineError(ErrLoad, err)
	}
	result.RawKey = latest.Key
	logger.Info("latest raw file", slog.String("key", latest.Key), slog.Time("lastModified", latest.LastModified))

	// load
	record, err := obj.load(ctx, latest.Key)
	if err != nil {
		return result, newPipelineError(ErrLoad, err)
	}
	defer record.Release()
	logger.Info("loaded raw file", slog.String("key", latest.Key), slog.Int64("rows", record.NumRows()))

	// transform
	transformed, err := obj.transformer(ctx, obj.allocator, logger, record)
	if err != nil {
		return result, newPipelineError(ErrTransform, err)
	}
	defer transformed.Release()
	result.Rows = int(transformed.NumRows())

	// publish
	publishTime := obj.clock.Now()
	result.Partition = partitionFuncs.DatePartition(publishTime)
	result.ProcessedKey = operations.ProcessedKey(
		obj.options.ProcessedPrefix, result.Partition, latest.Key, obj.options.OutputFormat,
	)

	data, err := operations.EncodeRecord(ctx, transformed, obj.options.OutputFormat, obj.dataset.Name())
	if err != nil {
		return result, newPipelineError(ErrPublish, err)
	}

	if obj.options.DryRun {
		logger.Info(
			"dry run, skipping publish",
			slog.String("processedKey", result.ProcessedKey),
			slog.Int("numBytes", len(data)),
		)
		return result, nil
	}

	err = obj.objectStorage.Upload(ctx, obj.options.Bucket, result.ProcessedKey, data)
	if err != nil {
		return result, newPipelineError(ErrPublish, err)
	}
	logger.Info("saved processed file", slog.String("key", result.ProcessedKey))

	// log
	entry := elements.NewRunLogEntry(latest.Key, result.ProcessedKey, obj.clock.Now())
	result.RunTime = entry.RunTime
	logRows, err := obj.runLogStorage.Append(ctx, entry)
	if err != nil {
		return result, newPipelineError(ErrLogUpdate, err)
	}
	result.LogRows = logRows
	logger.Info("run log updated", slog.Int("rows", logRows))

	// register
	if obj.registrar != nil {
		location := operations.PartitionLocation(obj.options.Bucket, obj.options.ProcessedPrefix, result.Partition)
		queryID, err := obj.registrar.RegisterPartition(ctx, result.Partition, location)
		if err != nil {
			return result, newPipelineError(ErrPartitionRegistration, err)
		}
		result.QueryExecutionID = queryID
		logger.Info(
			"partition registration submitted",
			slog.String("partition", result.Partition.Path()),
			slog.String("location", location),
		)
	}

	logger.Info("run complete", slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (obj *Runner) load(ctx context.Context, key string) (arrow.Record, error) {
	data, err := obj.objectStorage.Download(ctx, obj.options.Bucket, key)
	if err != nil {
		return nil, err
	}
	return arrowops.ReadCSV(obj.allocator, data, obj.dataset.NumericColumns())
}
