package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tylerdata/taxiPipeline/elements"
)

type MockObjectStorage struct {
	mock.Mock
}

func (obj *MockObjectStorage) Upload(ctx context.Context, bucket, key string, data []byte) error {
	ret := obj.Called(ctx, bucket, key, data)
	return ret.Error(0)
}

func (obj *MockObjectStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	ret := obj.Called(ctx, bucket, key)
	var data []byte
	if ret.Get(0) != nil {
		data = ret.Get(0).([]byte)
	}
	return data, ret.Error(1)
}

func (obj *MockObjectStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]elements.ObjectInfo, error) {
	ret := obj.Called(ctx, bucket, prefix)
	var objects []elements.ObjectInfo
	if ret.Get(0) != nil {
		objects = ret.Get(0).([]elements.ObjectInfo)
	}
	return objects, ret.Error(1)
}
