// Package storage keeps generated report exports in an object store.
// Backends cover MinIO, Google Cloud Storage, and an in-memory map for
// self-contained runs.
package storage

import (
	"context"
	"io"
)

// ObjectStorage is the backend contract for report archives. Keys are
// report object paths; missing keys surface store.ErrNotFound where
// the backend can tell.
type ObjectStorage interface {
	// EnsureBucket creates the report bucket when it does not exist yet.
	EnsureBucket(ctx context.Context) error
	// Put uploads a rendered report under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get opens the stored report for streaming.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a stored report.
	Delete(ctx context.Context, key string) error
	// Bucket reports the configured bucket name.
	Bucket() string
}
