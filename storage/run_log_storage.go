package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/tylerdata/taxiPipeline/arrowOps"
	"github.com/tylerdata/taxiPipeline/elements"
)

type IRunLogStorage interface {
	Append(context.Context, elements.RunLogEntry) (int, error)
	Entries(context.Context) ([]elements.RunLogEntry, error)
}

type RunLogStorageOptions struct {
	BucketName   string
	LogKey       string
	LockDuration time.Duration
}

/*
* RunLogStorage keeps the csv run history object. Every append is a
* read-modify-write of the whole object. When a key storage is provided the
* update holds a distributed lock, otherwise concurrent runs can overwrite
* each other's rows.
 */
type RunLogStorage struct {
	logger *slog.Logger
	mem    *memory.GoAllocator

	IObjectStorage
	keyStorage IKeyStorage

	bucketName   string
	logKey       string
	lockDuration time.Duration
}

func NewRunLogStorage(
	logger *slog.Logger,
	mem *memory.GoAllocator,
	objectStorage IObjectStorage,
	keyStorage IKeyStorage,
	options RunLogStorageOptions,
) *RunLogStorage {
	lockDuration := options.LockDuration
	if lockDuration <= 0 {
		lockDuration = time.Minute
	}
	return &RunLogStorage{
		logger:         logger,
		mem:            mem,
		IObjectStorage: objectStorage,
		keyStorage:     keyStorage,
		bucketName:     options.BucketName,
		logKey:         options.LogKey,
		lockDuration:   lockDuration,
	}
}

func (obj *RunLogStorage) LogKey() string {
	return obj.logKey
}

// Append adds one row to the run log and returns the number of rows written.
func (obj *RunLogStorage) Append(ctx context.Context, entry elements.RunLogEntry) (rows int, err error) {
	if err := entry.Validate(); err != nil {
		return 0, err
	}

	if obj.keyStorage != nil {
		var lock ILock
		lock, err = obj.keyStorage.ClaimRunLog(ctx, obj.logKey, obj.lockDuration)
		if err != nil {
			return 0, errs.Wrap(err, fmt.Errorf("unable to claim the run log lock"))
		}
		defer func() {
			_, unlockErr := obj.keyStorage.ReleaseLock(ctx, lock)
			if unlockErr != nil && err != nil {
				err = errs.Wrap(err, fmt.Errorf("%w| while handling previous error another occurred", unlockErr))
			} else if unlockErr != nil {
				err = unlockErr
			}
		}()
	} else {
		obj.logger.Warn(
			"updating run log without a lock; concurrent runs may lose entries",
			slog.String("key", obj.logKey),
		)
	}

	existing, err := obj.load(ctx)
	if err != nil {
		return 0, err
	}
	defer existing.Release()

	newRow, err := arrowops.NewStringRecord(obj.mem, elements.RunLogColumns, [][]string{entry.Row()})
	if err != nil {
		return 0, err
	}
	defer newRow.Release()

	updated, err := arrowops.ConcatenateRecords(obj.mem, existing, newRow)
	if err != nil {
		return 0, errs.Wrap(err, fmt.Errorf("failed appending to run log %s", obj.logKey))
	}
	defer updated.Release()

	data, err := arrowops.WriteCSV(updated)
	if err != nil {
		return 0, err
	}

	err = obj.Upload(ctx, obj.bucketName, obj.logKey, data)
	if err != nil {
		return 0, err
	}

	return int(updated.NumRows()), nil
}

func (obj *RunLogStorage) Entries(ctx context.Context) ([]elements.RunLogEntry, error) {
	record, err := obj.load(ctx)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	rows := arrowops.StringRows(record)
	entries := make([]elements.RunLogEntry, len(rows))
	for i, row := range rows {
		entries[i] = elements.RunLogEntry{RawKey: row[0], ProcessedKey: row[1], RunTime: row[2]}
	}
	return entries, nil
}

// load returns the current log, or an empty one when the object is absent.
func (obj *RunLogStorage) load(ctx context.Context) (arrow.Record, error) {
	data, err := obj.Download(ctx, obj.bucketName, obj.logKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			obj.logger.Info("run log not found, starting a new one", slog.String("key", obj.logKey))
			return arrowops.NewStringRecord(obj.mem, elements.RunLogColumns, nil)
		}
		return nil, err
	}

	record, err := arrowops.ReadCSV(obj.mem, data, nil)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed parsing run log %s", obj.logKey))
	}

	columns := make([]string, record.NumCols())
	for i := range columns {
		columns[i] = record.ColumnName(i)
	}
	if !slices.Equal(columns, elements.RunLogColumns) {
		record.Release()
		return nil, fmt.Errorf("%w| expected columns %v, found %v", ErrRunLogInvalid, elements.RunLogColumns, columns)
	}

	return record, nil
}
