package arrowops

import (
	"fmt"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

/*
* Append a float64 column holding numerator / denominator for every row.
* Division follows IEEE-754: a zero denominator gives +Inf or -Inf and 0/0
* gives NaN. A null operand gives a null result. No row is dropped.
 */
func DivideColumns(mem *memory.GoAllocator, record arrow.Record, numerator, denominator, result string) (arrow.Record, error) {
	if len(record.Schema().FieldIndices(result)) > 0 {
		return nil, errs.NewStackError(fmt.Errorf("%w| column name: %s", ErrColumnAlreadyExists, result))
	}

	numArr, err := Column(record, numerator)
	if err != nil {
		return nil, err
	}
	denArr, err := Column(record, denominator)
	if err != nil {
		return nil, err
	}

	numValues, err := Float64Values(numArr)
	if err != nil {
		return nil, fmt.Errorf("%w| column %s", err, numerator)
	}
	denValues, err := Float64Values(denArr)
	if err != nil {
		return nil, fmt.Errorf("%w| column %s", err, denominator)
	}

	builder := array.NewFloat64Builder(mem)
	defer builder.Release()
	builder.Reserve(int(record.NumRows()))
	for i := 0; i < int(record.NumRows()); i++ {
		if numArr.IsNull(i) || denArr.IsNull(i) {
			builder.AppendNull()
			continue
		}
		builder.Append(numValues[i] / denValues[i])
	}
	resultArr := builder.NewArray()
	defer resultArr.Release()

	fields := append(record.Schema().Fields(), arrow.Field{
		Name:     result,
		Type:     arrow.PrimitiveTypes.Float64,
		Nullable: true,
	})
	columns := make([]arrow.Array, 0, record.NumCols()+1)
	columns = append(columns, record.Columns()...)
	columns = append(columns, resultArr)

	return array.NewRecord(arrow.NewSchema(fields, nil), columns, record.NumRows()), nil
}

// Float64Values widens a numeric array to float64. Null slots hold zero.
func Float64Values(arr arrow.Array) ([]float64, error) {
	values := make([]float64, arr.Len())
	switch typedArr := arr.(type) {
	case *array.Float64:
		copy(values, typedArr.Float64Values())
	case *array.Float32:
		for i := range values {
			values[i] = float64(typedArr.Value(i))
		}
	case *array.Int64:
		for i := range values {
			values[i] = float64(typedArr.Value(i))
		}
	case *array.Int32:
		for i := range values {
			values[i] = float64(typedArr.Value(i))
		}
	case *array.Uint64:
		for i := range values {
			values[i] = float64(typedArr.Value(i))
		}
	case *array.Uint32:
		for i := range values {
			values[i] = float64(typedArr.Value(i))
		}
	default:
		return nil, errs.NewStackError(fmt.Errorf("%w| %s", ErrUnsupportedDataType, arr.DataType()))
	}
	return values, nil
}
