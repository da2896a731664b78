package operations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alekLukanen/errs"

	"github.com/tylerdata/taxiPipeline/elements"
)

/*
* Pick the object with the newest LastModified among the keys ending in
* suffix. Listing order breaks ties: the first object seen keeps its place
* unless a strictly newer one follows.
 */
func SelectLatest(objects []elements.ObjectInfo, suffix string) (elements.ObjectInfo, int, bool) {
	var latest elements.ObjectInfo
	var candidates int
	for _, object := range objects {
		if !strings.HasSuffix(object.Key, suffix) {
			continue
		}
		if candidates == 0 || object.LastModified.After(latest.LastModified) {
			latest = object
		}
		candidates++
	}
	return latest, candidates, candidates > 0
}

func DiscoverLatest(
	ctx context.Context,
	logger *slog.Logger,
	lister IObjectLister,
	bucket, prefix, suffix string,
) (elements.ObjectInfo, error) {
	objects, err := lister.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return elements.ObjectInfo{}, errs.Wrap(err, fmt.Errorf("unable to list s3://%s/%s", bucket, prefix))
	}

	latest, candidates, ok := SelectLatest(objects, suffix)
	if !ok {
		return elements.ObjectInfo{}, fmt.Errorf("%w| no %s files under s3://%s/%s", ErrNoInputFound, suffix, bucket, prefix)
	}

	logger.Debug(
		"selected latest raw object",
		slog.String("key", latest.Key),
		slog.Time("lastModified", latest.LastModified),
		slog.Int("candidates", candidates),
		slog.Int("listed", len(objects)),
	)
	return latest, nil
}
