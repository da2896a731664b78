package arrowops

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingValueMarkers are the cell values read as null in numeric columns.
var MissingValueMarkers = []string{
	"",
	"#N/A",
	"#N/A N/A",
	"#NA",
	"-1.#IND",
	"-1.#QNAN",
	"-NaN",
	"-nan",
	"1.#IND",
	"1.#QNAN",
	"<NA>",
	"N/A",
	"NA",
	"NULL",
	"NaN",
	"None",
	"n/a",
	"nan",
	"null",
}

// CSVHeader returns the column names from the first line of the data.
func CSVHeader(data []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.NewStackError(ErrCSVHeaderMissing)
	} else if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed reading csv header"))
	}
	return header, nil
}

/*
* Parse delimited text with a header row into a single record. The columns
* listed in numericColumns are parsed as float64 after trimming surrounding
* whitespace, with empty cells and MissingValueMarkers read as nulls. All
* other columns stay strings so they are written back unchanged.
 */
func ReadCSV(mem *memory.GoAllocator, data []byte, numericColumns []string) (arrow.Record, error) {
	header, err := CSVHeader(data)
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		if slices.Contains(numericColumns, name) {
			fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		} else {
			fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
		}
	}
	schema := arrow.NewSchema(fields, nil)

	body, err := trimNumericCells(bytes.TrimPrefix(data, utf8BOM), header, numericColumns)
	if err != nil {
		return nil, err
	}

	reader := arrowcsv.NewReader(
		bytes.NewReader(body),
		schema,
		arrowcsv.WithAllocator(mem),
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(-1),
		arrowcsv.WithNullReader(false, MissingValueMarkers...),
	)
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil {
			return nil, errs.Wrap(reader.Err(), fmt.Errorf("failed parsing csv data"))
		}
		recBuilder := array.NewRecordBuilder(mem, schema)
		defer recBuilder.Release()
		return recBuilder.NewRecord(), nil
	}
	if reader.Err() != nil {
		return nil, errs.Wrap(reader.Err(), fmt.Errorf("failed parsing csv data"))
	}

	record := reader.Record()
	record.Retain()
	return record, nil
}

// trimNumericCells strips surrounding whitespace from the cells of the
// numeric columns and leaves every other cell untouched.
func trimNumericCells(data []byte, header []string, numericColumns []string) ([]byte, error) {
	numericIdxs := make([]int, 0, len(numericColumns))
	for i, name := range header {
		if slices.Contains(numericColumns, name) {
			numericIdxs = append(numericIdxs, i)
		}
	}
	if len(numericIdxs) == 0 {
		return data, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed parsing csv data"))
		}
		for _, idx := range numericIdxs {
			if idx < len(row) {
				row[idx] = strings.TrimSpace(row[idx])
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, errs.Wrap(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errs.Wrap(err)
	}

	return buf.Bytes(), nil
}

// WriteCSV serializes the record with a header row in schema column order.
// Null cells are written as empty strings.
func WriteCSV(record arrow.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := arrowcsv.NewWriter(
		&buf,
		record.Schema(),
		arrowcsv.WithHeader(true),
		arrowcsv.WithNullWriter(""),
	)

	if err := writer.Write(record); err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed writing csv record"))
	}
	if err := writer.Flush(); err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed flushing csv writer"))
	}
	if err := writer.Error(); err != nil {
		return nil, errs.Wrap(err)
	}

	return buf.Bytes(), nil
}
