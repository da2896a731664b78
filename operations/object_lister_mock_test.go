package operations

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tylerdata/taxiPipeline/elements"
)

type MockObjectLister struct {
	mock.Mock
}

func (obj *MockObjectLister) ListObjects(ctx context.Context, bucket, prefix string) ([]elements.ObjectInfo, error) {
	ret := obj.Called(ctx, bucket, prefix)
	var objects []elements.ObjectInfo
	if ret.Get(0) != nil {
		objects = ret.Get(0).([]elements.ObjectInfo)
	}
	return objects, ret.Error(1)
}
