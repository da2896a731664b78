package elements

import (
	"context"
	"log/slog"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

type Transformer func(ctx context.Context, allocator *memory.GoAllocator, logger *slog.Logger, record arrow.Record) (arrow.Record, error)
