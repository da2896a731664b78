package elements

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunLogEntry(t *testing.T) {
	runTime := time.Date(2025, time.March, 7, 9, 5, 3, 999, time.Local)
	entry := NewRunLogEntry("raw/b.csv", "processed/year=2025/month=03/day=07/b.csv", runTime)

	assert.Equal(t, "2025-03-07 09:05:03", entry.RunTime)
	assert.Equal(t, []string{"raw/b.csv", "processed/year=2025/month=03/day=07/b.csv", "2025-03-07 09:05:03"}, entry.Row())
	assert.Nil(t, entry.Validate())
	assert.Equal(t, []string{"raw_key", "processed_key", "run_time"}, RunLogColumns)
}

func TestRunLogEntryValidate(t *testing.T) {
	testCases := []RunLogEntry{
		{ProcessedKey: "p", RunTime: "t"},
		{RawKey: "r", RunTime: "t"},
		{RawKey: "r", ProcessedKey: "p"},
	}
	for _, entry := range testCases {
		assert.True(t, errors.Is(entry.Validate(), ErrRunLogEntryInvalid), "entry %v", entry)
	}
}

func TestPartitionKey(t *testing.T) {
	partition := PartitionKey{Year: "2025", Month: "03", Day: "07"}
	assert.Equal(t, "year=2025/month=03/day=07", partition.Path())
	assert.Equal(t, "2025-03-07", partition.Date())
	assert.False(t, partition.IsZero())
	assert.True(t, PartitionKey{}.IsZero())
}
