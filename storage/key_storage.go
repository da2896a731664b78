package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alekLukanen/errs"
	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

type ILock interface {
	LockContext(context.Context) error
	UnlockContext(context.Context) (bool, error)
	Name() string
}

type IKeyStorage interface {
	ClaimRunLog(context.Context, string, time.Duration) (ILock, error)
	ReleaseLock(context.Context, ILock) (bool, error)
}

type KeyStorageOptions struct {
	Address    string
	Password   string
	DB         int
	KeyPrefix  string
	Tries      int
	RetryDelay time.Duration
}

type KeyStorage struct {
	logger *slog.Logger
	client *goredislib.Client
	pool   redsyncredis.Pool
	sync   *redsync.Redsync

	KeyPrefix  string
	tries      int
	retryDelay time.Duration
}

func NewKeyStorage(
	ctx context.Context,
	logger *slog.Logger,
	options KeyStorageOptions,
) (*KeyStorage, error) {
	client := goredislib.NewClient(&goredislib.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	pingCtx, cancelFunc := context.WithTimeout(ctx, 5*time.Second)
	defer cancelFunc()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(err, fmt.Errorf("unable to reach key storage at %s", options.Address))
	}

	redisPool := goredis.NewPool(client)
	mutexSync := redsync.New(redisPool)

	tries := options.Tries
	if tries <= 0 {
		tries = 32
	}
	retryDelay := options.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 250 * time.Millisecond
	}

	keyStorage := KeyStorage{
		logger:     logger,
		client:     client,
		pool:       redisPool,
		sync:       mutexSync,
		KeyPrefix:  options.KeyPrefix,
		tries:      tries,
		retryDelay: retryDelay,
	}
	return &keyStorage, nil
}

func (obj *KeyStorage) Key(key string) string {
	return fmt.Sprintf("%s-%s", obj.KeyPrefix, key)
}

// AcquireLock blocks until the lock is held or the configured tries run out.
func (obj *KeyStorage) AcquireLock(ctx context.Context, key string, duration time.Duration) (ILock, error) {
	mutex := obj.sync.NewMutex(
		obj.Key(key),
		redsync.WithExpiry(duration),
		redsync.WithTries(obj.tries),
		redsync.WithRetryDelay(obj.retryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w| lock %s", err, mutex.Name())
	}
	return mutex, nil
}

func (obj *KeyStorage) ReleaseLock(ctx context.Context, lock ILock) (bool, error) {
	ok, err := lock.UnlockContext(ctx)
	return ok, err
}

// runLogLockName is unprefixed; AcquireLock applies KeyPrefix.
func runLogLockName(logKey string) string {
	return fmt.Sprintf("run-log-lock/%s", logKey)
}

func (obj *KeyStorage) ClaimRunLog(ctx context.Context, logKey string, duration time.Duration) (ILock, error) {
	name := runLogLockName(logKey)
	obj.logger.Debug("claiming run log lock", slog.String("key", obj.Key(name)))
	return obj.AcquireLock(ctx, name, duration)
}

func (obj *KeyStorage) Close() error {
	return obj.client.Close()
}
