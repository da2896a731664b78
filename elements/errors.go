package elements

import "errors"

var (
	ErrDatasetInvalid     = errors.New("dataset invalid")
	ErrRunLogEntryInvalid = errors.New("run log entry invalid")
)
