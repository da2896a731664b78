package operations

import (
	"context"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"

	arrowops "github.com/tylerdata/taxiPipeline/arrowOps"
	"github.com/tylerdata/taxiPipeline/elements"
)

func TestFarePerMileTransformer(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewGoAllocator()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dataset := elements.NewDataset("trips")

	data := "VendorID,trip_distance,total_amount\n1,2,10\n2,0,5\n2,0,0\n"
	rec, err := arrowops.ReadCSV(mem, []byte(data), dataset.NumericColumns())
	if !assert.Nil(t, err) {
		return
	}
	defer rec.Release()

	transformed, err := FarePerMileTransformer(dataset)(ctx, mem, logger, rec)
	if !assert.Nil(t, err) {
		return
	}
	defer transformed.Release()

	idx, err := arrowops.ColumnIndex(transformed, "fare_per_mile")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 3, idx, "derived column is appended last")

	fares := transformed.Column(idx).(*array.Float64)
	assert.Equal(t, 5.0, fares.Value(0))
	assert.True(t, math.IsInf(fares.Value(1), 1))
	assert.True(t, math.IsNaN(fares.Value(2)))
}
