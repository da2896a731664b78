package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tylerdata/taxiPipeline/elements"
)

// IPartitionRegistrar makes a published partition visible to the query engine.
// The returned string identifies the submitted request when the engine
// provides one.
type IPartitionRegistrar interface {
	RegisterPartition(ctx context.Context, partition elements.PartitionKey, location string) (string, error)
}

/*
* Build the hive partition registration statement:
*
*   ALTER TABLE db.table ADD IF NOT EXISTS
*   PARTITION (year='2025', month='03', day='07')
*   LOCATION 's3://bucket/processed/year=2025/month=03/day=07/'
*
* Values are single quoted sql literals.
 */
func BuildPartitionQuery(database, table string, partition elements.PartitionKey, location string) (string, error) {
	if err := validatePartition(partition); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"ALTER TABLE %s.%s ADD IF NOT EXISTS\nPARTITION (year='%s', month='%s', day='%s')\nLOCATION '%s'",
		database,
		table,
		quoteLiteral(partition.Year),
		quoteLiteral(partition.Month),
		quoteLiteral(partition.Day),
		quoteLiteral(location),
	), nil
}

func PartitionValues(partition elements.PartitionKey) []string {
	return []string{partition.Year, partition.Month, partition.Day}
}

func validatePartition(partition elements.PartitionKey) error {
	for name, value := range map[string]string{"year": partition.Year, "month": partition.Month, "day": partition.Day} {
		if value == "" {
			return fmt.Errorf("%w| %s", ErrPartitionValueEmpty, name)
		}
	}
	return nil
}

func quoteLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
