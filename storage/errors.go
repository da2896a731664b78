package storage

import (
	"errors"

	"github.com/go-redsync/redsync/v4"
)

var (
	ErrLockFailed         = redsync.ErrFailed
	ErrLockAlreadyExpired = redsync.ErrLockAlreadyExpired
	ErrObjectNotFound     = errors.New("object not found")
	ErrRunLogInvalid      = errors.New("run log is invalid")
)
