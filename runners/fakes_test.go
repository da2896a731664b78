package runners

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tylerdata/taxiPipeline/elements"
	"github.com/tylerdata/taxiPipeline/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type memoryObject struct {
	data         []byte
	lastModified time.Time
}

// memoryObjectStorage is an in process stand-in for a bucket.
type memoryObjectStorage struct {
	mu      sync.Mutex
	objects map[string]memoryObject
	order   []string

	uploadErr   map[string]error
	downloadErr map[string]error
	listErr     error
	uploads     []string
}

func newMemoryObjectStorage() *memoryObjectStorage {
	return &memoryObjectStorage{
		objects:     make(map[string]memoryObject),
		uploadErr:   make(map[string]error),
		downloadErr: make(map[string]error),
	}
}

func (obj *memoryObjectStorage) path(bucket, key string) string {
	return fmt.Sprintf("%s/%s", bucket, key)
}

func (obj *memoryObjectStorage) put(bucket, key string, data []byte, lastModified time.Time) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	p := obj.path(bucket, key)
	if _, ok := obj.objects[p]; !ok {
		obj.order = append(obj.order, p)
	}
	obj.objects[p] = memoryObject{data: data, lastModified: lastModified}
}

func (obj *memoryObjectStorage) get(bucket, key string) ([]byte, bool) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	object, ok := obj.objects[obj.path(bucket, key)]
	return object.data, ok
}

func (obj *memoryObjectStorage) Upload(ctx context.Context, bucket, key string, body []byte) error {
	if err := obj.uploadErr[key]; err != nil {
		return err
	}
	obj.put(bucket, key, append([]byte(nil), body...), time.Now())
	obj.mu.Lock()
	obj.uploads = append(obj.uploads, key)
	obj.mu.Unlock()
	return nil
}

func (obj *memoryObjectStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := obj.downloadErr[key]; err != nil {
		return nil, err
	}
	data, ok := obj.get(bucket, key)
	if !ok {
		return nil, fmt.Errorf("%w| s3://%s/%s", storage.ErrObjectNotFound, bucket, key)
	}
	return data, nil
}

func (obj *memoryObjectStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]elements.ObjectInfo, error) {
	if obj.listErr != nil {
		return nil, obj.listErr
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()

	bucketPrefix := obj.path(bucket, prefix)
	objects := make([]elements.ObjectInfo, 0)
	keys := append([]string(nil), obj.order...)
	sort.Strings(keys)
	for _, p := range keys {
		object, ok := obj.objects[p]
		if !ok || len(p) < len(bucketPrefix) || p[:len(bucketPrefix)] != bucketPrefix {
			continue
		}
		objects = append(objects, elements.ObjectInfo{
			Key:          p[len(bucket)+1:],
			LastModified: object.lastModified,
			Size:         int64(len(object.data)),
		})
	}
	return objects, nil
}

type MockPartitionRegistrar struct {
	mock.Mock
}

func (obj *MockPartitionRegistrar) RegisterPartition(ctx context.Context, partition elements.PartitionKey, location string) (string, error) {
	ret := obj.Called(ctx, partition, location)
	return ret.String(0), ret.Error(1)
}

type MockRunLogStorage struct {
	mock.Mock
}

func (obj *MockRunLogStorage) Append(ctx context.Context, entry elements.RunLogEntry) (int, error) {
	ret := obj.Called(ctx, entry)
	return ret.Int(0), ret.Error(1)
}

func (obj *MockRunLogStorage) Entries(ctx context.Context) ([]elements.RunLogEntry, error) {
	ret := obj.Called(ctx)
	var entries []elements.RunLogEntry
	if ret.Get(0) != nil {
		entries = ret.Get(0).([]elements.RunLogEntry)
	}
	return entries, ret.Error(1)
}
