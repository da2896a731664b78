package arrowops

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

func mockTrips(mem *memory.GoAllocator, size int) arrow.Record {
	schema := arrow.NewSchema(
		[]arrow.Field{
			{Name: "VendorID", Type: arrow.BinaryTypes.String, Nullable: true},
			{Name: "total_amount", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
			{Name: "trip_distance", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		}, nil,
	)
	recBuilder := array.NewRecordBuilder(mem, schema)
	defer recBuilder.Release()

	for i := 0; i < size; i++ {
		if i%2 == 0 {
			recBuilder.Field(0).(*array.StringBuilder).Append("1")
		} else {
			recBuilder.Field(0).(*array.StringBuilder).Append("2")
		}
		recBuilder.Field(1).(*array.Float64Builder).Append(float64(i) * 2.5)
		if i == size-1 {
			recBuilder.Field(2).(*array.Float64Builder).AppendNull()
		} else {
			recBuilder.Field(2).(*array.Float64Builder).Append(float64(i) + 0.5)
		}
	}

	return recBuilder.NewRecord()
}
