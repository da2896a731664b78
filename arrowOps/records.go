package arrowops

import (
	"fmt"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

func ColumnIndex(rec arrow.Record, columnName string) (int, error) {
	colIndex := rec.Schema().FieldIndices(columnName)
	if len(colIndex) == 0 {
		return 0, errs.NewStackError(fmt.Errorf("%w| column name: %s", ErrColumnNotFound, columnName))
	} else if len(colIndex) > 1 {
		return 0, errs.NewStackError(fmt.Errorf("%w| column name: %s", ErrMultipleColumnsFound, columnName))
	}
	return colIndex[0], nil
}

func Column(rec arrow.Record, columnName string) (arrow.Array, error) {
	idx, err := ColumnIndex(rec, columnName)
	if err != nil {
		return nil, err
	}
	return rec.Column(idx), nil
}

// NewStringRecord builds a record of non-null string columns from row data.
func NewStringRecord(mem *memory.GoAllocator, columns []string, rows [][]string) (arrow.Record, error) {
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}

	recBuilder := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer recBuilder.Release()

	for rowIdx, row := range rows {
		if len(row) != len(columns) {
			return nil, errs.NewStackError(
				fmt.Errorf("%w| row %d has %d values for %d columns", ErrSchemasNotEqual, rowIdx, len(row), len(columns)),
			)
		}
		for colIdx, value := range row {
			recBuilder.Field(colIdx).(*array.StringBuilder).Append(value)
		}
	}

	return recBuilder.NewRecord(), nil
}

// StringRows renders every cell of the record with ValueStr, nulls as "".
func StringRows(rec arrow.Record) [][]string {
	rows := make([][]string, rec.NumRows())
	for i := range rows {
		row := make([]string, rec.NumCols())
		for colIdx := 0; colIdx < int(rec.NumCols()); colIdx++ {
			col := rec.Column(colIdx)
			if col.IsNull(i) {
				continue
			}
			row[colIdx] = col.ValueStr(i)
		}
		rows[i] = row
	}
	return rows
}
