package warehouse

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tylerdata/taxiPipeline/catalog"
	"github.com/tylerdata/taxiPipeline/config"
	"github.com/tylerdata/taxiPipeline/elements"
	"github.com/tylerdata/taxiPipeline/runners"
	"github.com/tylerdata/taxiPipeline/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestWarehouseHistory(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	objectStorage := new(MockObjectStorage)
	objectStorage.On("Download", ctx, cfg.Storage.Bucket, cfg.RunLog.Key).Return(
		[]byte("raw_key,processed_key,run_time\nraw/b.csv,processed/year=2025/month=03/day=07/b.csv,2025-03-07 14:30:05\n"),
		nil,
	).Once()

	wh, err := newWarehouse(testLogger(), objectStorage, nil, nil, cfg, nil)
	if !assert.Nil(t, err) {
		return
	}
	defer wh.Close()

	entries, err := wh.History(ctx)
	assert.Nil(t, err)
	expectedEntries := []elements.RunLogEntry{{
		RawKey:       "raw/b.csv",
		ProcessedKey: "processed/year=2025/month=03/day=07/b.csv",
		RunTime:      "2025-03-07 14:30:05",
	}}
	if diff := cmp.Diff(expectedEntries, entries); diff != "" {
		t.Errorf("run log entries mismatch (-want +got):\n%s", diff)
	}
	objectStorage.AssertExpectations(t)
}

func TestWarehouseDryRun(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	objectStorage := new(MockObjectStorage)
	objectStorage.On("ListObjects", ctx, cfg.Storage.Bucket, "raw/").Return([]elements.ObjectInfo{
		{Key: "raw/a.csv", LastModified: time.Date(2025, time.March, 6, 8, 0, 0, 0, time.UTC)},
	}, nil).Once()
	objectStorage.On("Download", ctx, cfg.Storage.Bucket, "raw/a.csv").Return(
		[]byte("VendorID,total_amount,trip_distance\n1,30,3\n"), nil,
	).Once()

	wh, err := newWarehouse(testLogger(), objectStorage, nil, nil, cfg, nil)
	if !assert.Nil(t, err) {
		return
	}

	result, err := wh.Run(ctx, true)
	assert.Nil(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, "raw/a.csv", result.RawKey)
	assert.Equal(t, 1, result.Rows)
	objectStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	objectStorage.AssertExpectations(t)
}

func TestWarehouseRunNoInput(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	objectStorage := new(MockObjectStorage)
	objectStorage.On("ListObjects", ctx, cfg.Storage.Bucket, "raw/").Return([]elements.ObjectInfo{}, nil).Once()

	wh, err := newWarehouse(testLogger(), objectStorage, nil, nil, cfg, nil)
	if !assert.Nil(t, err) {
		return
	}

	_, err = wh.Run(ctx, false)
	assert.True(t, errors.Is(err, runners.ErrNoInputFound))
	objectStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestObjectStorageOptions(t *testing.T) {
	cfg := config.Default()

	options := ObjectStorageOptions(cfg.Storage)
	assert.Equal(t, storage.ObjectStorageAuthTypeDefault, options.AuthType)

	cfg.Storage.AuthKey = "key"
	cfg.Storage.AuthSecret = "secret"
	cfg.Storage.Endpoint = "http://localhost:9000"
	options = ObjectStorageOptions(cfg.Storage)
	assert.Equal(t, storage.ObjectStorageAuthTypeStatic, options.AuthType)
	assert.Equal(t, "key", options.AuthKey)
	assert.Equal(t, "http://localhost:9000", options.Endpoint)
}

func TestNewRegistrar(t *testing.T) {
	cfg, err := config.Decode("")
	if !assert.Nil(t, err) {
		return
	}
	awsConfig := aws.Config{Region: "us-east-1"}

	registrar, err := NewRegistrar(testLogger(), awsConfig, cfg.Catalog)
	assert.Nil(t, err)
	assert.IsType(t, &catalog.AthenaRegistrar{}, registrar)

	cfg.Catalog.Engine = config.CatalogEngineGlue
	registrar, err = NewRegistrar(testLogger(), awsConfig, cfg.Catalog)
	assert.Nil(t, err)
	assert.IsType(t, &catalog.GlueRegistrar{}, registrar)

	cfg.Catalog.Engine = "presto"
	_, err = NewRegistrar(testLogger(), awsConfig, cfg.Catalog)
	assert.True(t, errors.Is(err, config.ErrConfigInvalid))
}
