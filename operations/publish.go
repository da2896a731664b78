package operations

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"

	arrowops "github.com/tylerdata/taxiPipeline/arrowOps"
	"github.com/tylerdata/taxiPipeline/elements"
)

type OutputFormat string

const (
	OutputFormatCSV     OutputFormat = "csv"
	OutputFormatParquet OutputFormat = "parquet"
	OutputFormatAvro    OutputFormat = "avro"
)

func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(value)) {
	case "", OutputFormatCSV:
		return OutputFormatCSV, nil
	case OutputFormatParquet:
		return OutputFormatParquet, nil
	case OutputFormatAvro:
		return OutputFormatAvro, nil
	default:
		return "", fmt.Errorf("%w| %s", ErrUnsupportedOutputFormat, value)
	}
}

func (obj OutputFormat) Extension() string {
	return "." + string(obj)
}

/*
* Build the output key: <prefix>/year=YYYY/month=MM/day=DD/<raw file name>.
* Non csv outputs swap the .csv extension for their own.
 */
func ProcessedKey(prefix string, partition elements.PartitionKey, rawKey string, format OutputFormat) string {
	fileName := path.Base(rawKey)
	if format != OutputFormatCSV {
		fileName = strings.TrimSuffix(fileName, path.Ext(fileName)) + format.Extension()
	}
	return path.Join(prefix, partition.Path(), fileName)
}

// PartitionLocation is the s3 uri of the partition directory, with a trailing slash.
func PartitionLocation(bucket, prefix string, partition elements.PartitionKey) string {
	return fmt.Sprintf("s3://%s/%s/", bucket, path.Join(prefix, partition.Path()))
}

func EncodeRecord(ctx context.Context, record arrow.Record, format OutputFormat, recordName string) ([]byte, error) {
	switch format {
	case OutputFormatCSV:
		return arrowops.WriteCSV(record)
	case OutputFormatParquet:
		return arrowops.WriteParquet(ctx, record)
	case OutputFormatAvro:
		return arrowops.WriteAvro(record, recordName)
	default:
		return nil, errs.NewStackError(fmt.Errorf("%w| %s", ErrUnsupportedOutputFormat, format))
	}
}
