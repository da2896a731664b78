package operations

import (
	"context"
	"log/slog"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/tylerdata/taxiPipeline/arrowOps"
	"github.com/tylerdata/taxiPipeline/elements"
)

// FarePerMileTransformer derives the dataset's ratio column, fare_per_mile
// by default, without filtering zero or missing distances.
func FarePerMileTransformer(dataset *elements.Dataset) elements.Transformer {
	return func(ctx context.Context, allocator *memory.GoAllocator, logger *slog.Logger, record arrow.Record) (arrow.Record, error) {
		logger.Debug(
			"deriving column",
			slog.String("column", dataset.DerivedColumn()),
			slog.String("numerator", dataset.NumeratorColumn()),
			slog.String("denominator", dataset.DenominatorColumn()),
		)
		return arrowops.DivideColumns(
			allocator,
			record,
			dataset.NumeratorColumn(),
			dataset.DenominatorColumn(),
			dataset.DerivedColumn(),
		)
	}
}
