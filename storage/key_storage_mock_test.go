package storage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockKeyStorage struct {
	mock.Mock
}

func (obj *MockKeyStorage) ClaimRunLog(ctx context.Context, logKey string, duration time.Duration) (ILock, error) {
	ret := obj.Called(ctx, logKey, duration)
	var lock ILock
	if ret.Get(0) != nil {
		lock = ret.Get(0).(ILock)
	}
	return lock, ret.Error(1)
}

func (obj *MockKeyStorage) ReleaseLock(ctx context.Context, lock ILock) (bool, error) {
	ret := obj.Called(ctx, lock)
	return ret.Bool(0), ret.Error(1)
}

type MockLock struct {
	mock.Mock
}

func (obj *MockLock) LockContext(ctx context.Context) error {
	return obj.Called(ctx).Error(0)
}

func (obj *MockLock) UnlockContext(ctx context.Context) (bool, error) {
	ret := obj.Called(ctx)
	return ret.Bool(0), ret.Error(1)
}

func (obj *MockLock) Name() string {
	return "mock-lock"
}
