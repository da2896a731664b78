package elements

import (
	"fmt"
	"time"
)

const (
	RunLogRawKeyColumn       = "raw_key"
	RunLogProcessedKeyColumn = "processed_key"
	RunLogRunTimeColumn      = "run_time"

	// run times are written with the local clock
	RunTimeLayout = "2006-01-02 15:04:05"
)

var RunLogColumns = []string{
	RunLogRawKeyColumn,
	RunLogProcessedKeyColumn,
	RunLogRunTimeColumn,
}

type RunLogEntry struct {
	RawKey       string
	ProcessedKey string
	RunTime      string
}

func NewRunLogEntry(rawKey, processedKey string, runTime time.Time) RunLogEntry {
	return RunLogEntry{
		RawKey:       rawKey,
		ProcessedKey: processedKey,
		RunTime:      runTime.Format(RunTimeLayout),
	}
}

func (obj RunLogEntry) Row() []string {
	return []string{obj.RawKey, obj.ProcessedKey, obj.RunTime}
}

func (obj RunLogEntry) Validate() error {
	if obj.RawKey == "" {
		return fmt.Errorf("%w: raw key is required", ErrRunLogEntryInvalid)
	}
	if obj.ProcessedKey == "" {
		return fmt.Errorf("%w: processed key is required", ErrRunLogEntryInvalid)
	}
	if obj.RunTime == "" {
		return fmt.Errorf("%w: run time is required", ErrRunLogEntryInvalid)
	}
	return nil
}
