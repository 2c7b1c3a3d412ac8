package archiver

import (
	"context"
	"io"
)

// ObjectRecord is one listed object: full key and declared size in bytes.
type ObjectRecord struct {
	Key  string
	Size int64
}

// ObjectStore is the subset of object-store operations the archiver uses.
// *s3.Client implements this interface.
type ObjectStore interface {
	// ListPage returns one page of objects under prefix. A nil
	// continuationToken requests the first page; a nil returned token
	// means the listing is exhausted.
	ListPage(ctx context.Context, prefix string, continuationToken *string) ([]ObjectRecord, *string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}
