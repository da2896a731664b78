package arrowops

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

func TestWritingAndReadingParquet(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewGoAllocator()

	data := mockTrips(mem, 10)
	defer data.Release()

	parquetData, err := WriteParquet(ctx, data)
	if err != nil {
		t.Fatalf("WriteParquet failed: %v", err)
	}

	readRecords, err := ReadParquet(ctx, mem, parquetData)
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	defer func() {
		for _, rec := range readRecords {
			rec.Release()
		}
	}()
	if len(readRecords) != 1 {
		t.Fatalf("ReadParquet failed: expected 1 record, got %d", len(readRecords))
	}
	if readRecords[0].NumRows() != 10 {
		t.Fatalf("ReadParquet failed: expected 10 rows, got %d", readRecords[0].NumRows())
	}

	if !array.RecordEqual(data, readRecords[0]) {
		t.Log("Expected:", data)
		t.Log("Got:", readRecords[0])
		t.Errorf("ReadParquet failed: records are not equal")
		return
	}

}
