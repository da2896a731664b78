package elements

import (
	"fmt"
	"time"
)

////////////////////////////////////////

type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
}

////////////////////////////////////////

// PartitionKey is the hive style year/month/day partition of a processed object.
type PartitionKey struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

func (obj PartitionKey) Path() string {
	return fmt.Sprintf("year=%s/month=%s/day=%s", obj.Year, obj.Month, obj.Day)
}

func (obj PartitionKey) Date() string {
	return fmt.Sprintf("%s-%s-%s", obj.Year, obj.Month, obj.Day)
}

func (obj PartitionKey) IsZero() bool {
	return obj.Year == "" && obj.Month == "" && obj.Day == ""
}
