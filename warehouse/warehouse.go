package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tylerdata/taxiPipeline/catalog"
	"github.com/tylerdata/taxiPipeline/config"
	"github.com/tylerdata/taxiPipeline/elements"
	"github.com/tylerdata/taxiPipeline/operations"
	"github.com/tylerdata/taxiPipeline/runners"
	"github.com/tylerdata/taxiPipeline/storage"
)

// Warehouse owns the storage clients and the runner built from one config.
type Warehouse struct {
	logger        *slog.Logger
	allocator     *memory.GoAllocator
	objectStorage storage.IObjectStorage
	keyStorage    *storage.KeyStorage
	runLogStorage storage.IRunLogStorage
	registrar     catalog.IPartitionRegistrar

	runner *runners.Runner
}

func NewWarehouse(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Warehouse, error) {
	objectStorageOptions := ObjectStorageOptions(cfg.Storage)
	awsConfig, err := storage.LoadAWSConfig(ctx, objectStorageOptions)
	if err != nil {
		return nil, err
	}
	objectStorage := storage.NewObjectStorageFromConfig(logger, awsConfig, objectStorageOptions)

	var keyStorage *storage.KeyStorage
	var runLogKeyStorage storage.IKeyStorage
	if cfg.Lock.Enabled {
		keyStorage, err = storage.NewKeyStorage(ctx, logger, storage.KeyStorageOptions{
			Address:    cfg.Lock.Address,
			Password:   cfg.Lock.Password,
			DB:         cfg.Lock.DB,
			KeyPrefix:  cfg.Lock.KeyPrefix,
			Tries:      cfg.Lock.Tries,
			RetryDelay: cfg.Lock.RetryDelay.Duration,
		})
		if err != nil {
			return nil, err
		}
		runLogKeyStorage = keyStorage
	}

	var registrar catalog.IPartitionRegistrar
	if cfg.Catalog.RegisterPartition {
		registrar, err = NewRegistrar(logger, awsConfig, cfg.Catalog)
		if err != nil {
			return nil, err
		}
	}

	return newWarehouse(logger, objectStorage, runLogKeyStorage, registrar, cfg, keyStorage)
}

func newWarehouse(
	logger *slog.Logger,
	objectStorage storage.IObjectStorage,
	runLogKeyStorage storage.IKeyStorage,
	registrar catalog.IPartitionRegistrar,
	cfg *config.Config,
	keyStorage *storage.KeyStorage,
) (*Warehouse, error) {
	allocator := memory.NewGoAllocator()

	runLogStorage := storage.NewRunLogStorage(
		logger,
		allocator,
		objectStorage,
		runLogKeyStorage,
		storage.RunLogStorageOptions{
			BucketName:   cfg.Storage.Bucket,
			LogKey:       cfg.RunLog.Key,
			LockDuration: cfg.RunLog.LockDuration.Duration,
		},
	)

	outputFormat, err := operations.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, errs.NewStackError(err)
	}

	runner, err := runners.NewRunner(
		logger,
		allocator,
		objectStorage,
		runLogStorage,
		cfg.DatasetDefinition(),
		runners.RunnerOptions{
			Bucket:          cfg.Storage.Bucket,
			RawPrefix:       cfg.Storage.RawPrefix,
			RawSuffix:       cfg.Storage.RawSuffix,
			ProcessedPrefix: cfg.Storage.ProcessedPrefix,
			OutputFormat:    outputFormat,
		},
	)
	if err != nil {
		return nil, errs.NewStackError(err)
	}
	if registrar != nil {
		runner.SetRegistrar(registrar)
	}

	return &Warehouse{
		logger:        logger,
		allocator:     allocator,
		objectStorage: objectStorage,
		keyStorage:    keyStorage,
		runLogStorage: runLogStorage,
		registrar:     registrar,
		runner:        runner,
	}, nil
}

func ObjectStorageOptions(cfg config.StorageConfig) storage.ObjectStorageOptions {
	if cfg.StaticCredentials() {
		return *storage.NewObjectStorageOptionsFromStaticCredentials(
			cfg.Endpoint, cfg.Region, cfg.AuthKey, cfg.AuthSecret, cfg.UsePathStyle,
		)
	}
	return storage.ObjectStorageOptions{
		Endpoint:     cfg.Endpoint,
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		AuthType:     storage.ObjectStorageAuthTypeDefault,
	}
}

func NewRegistrar(logger *slog.Logger, awsConfig aws.Config, cfg config.CatalogConfig) (catalog.IPartitionRegistrar, error) {
	switch cfg.Engine {
	case config.CatalogEngineAthena:
		return catalog.NewAthenaRegistrarFromConfig(logger, awsConfig, catalog.AthenaRegistrarOptions{
			Database:       cfg.Database,
			Table:          cfg.Table,
			OutputLocation: cfg.OutputLocation,
			WorkGroup:      cfg.WorkGroup,
		})
	case config.CatalogEngineGlue:
		return catalog.NewGlueRegistrarFromConfig(logger, awsConfig, catalog.GlueRegistrarOptions{
			Database: cfg.Database,
			Table:    cfg.Table,
		})
	default:
		return nil, fmt.Errorf("%w| catalog engine %q", config.ErrConfigInvalid, cfg.Engine)
	}
}

// Run executes a single pipeline run. dryRun skips every write.
func (obj *Warehouse) Run(ctx context.Context, dryRun bool) (runners.RunResult, error) {
	runner := obj.runner
	if dryRun {
		runner = runner.WithDryRun()
	}
	return runner.Run(ctx)
}

func (obj *Warehouse) History(ctx context.Context) ([]elements.RunLogEntry, error) {
	return obj.runLogStorage.Entries(ctx)
}

func (obj *Warehouse) Close() error {
	if obj.keyStorage != nil {
		return obj.keyStorage.Close()
	}
	return nil
}
