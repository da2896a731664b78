package partitionFuncs

import (
	"time"

	"github.com/tylerdata/taxiPipeline/elements"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (obj SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (obj FixedClock) Now() time.Time {
	return obj.T
}

/*
* Build the partition for the provided instant. The partition is taken from
* the wall clock of the run and never from the data itself, so reprocessing
* an old file files it under the day it was processed.
 */
func DatePartition(t time.Time) elements.PartitionKey {
	return elements.PartitionKey{
		Year:  t.Format("2006"),
		Month: t.Format("01"),
		Day:   t.Format("02"),
	}
}
