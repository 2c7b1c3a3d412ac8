package archiver

import (
	"context"
	"fmt"
	"strings"
)

// forEachObject walks every object under prefix in listing order, following
// pagination until exhausted. Keys ending in "/" are directory markers with
// no content and are skipped.
func forEachObject(ctx context.Context, store ObjectStore, prefix string, fn func(ObjectRecord) error) error {
	var token *string
	for {
		records, next, err := store.ListPage(ctx, prefix, token)
		if err != nil {
			return fmt.Errorf("list objects %q: %w", prefix, err)
		}
		for _, rec := range records {
			if strings.HasSuffix(rec.Key, "/") {
				continue
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		if next == nil {
			return nil
		}
		token = next
	}
}

// ListObjects returns all non-marker objects under prefix in listing order.
func ListObjects(ctx context.Context, store ObjectStore, prefix string) ([]ObjectRecord, error) {
	var records []ObjectRecord
	err := forEachObject(ctx, store, prefix, func(rec ObjectRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
