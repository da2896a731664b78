package operations

import (
	"context"

	"github.com/tylerdata/taxiPipeline/elements"
)

type IObjectLister interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]elements.ObjectInfo, error)
}
