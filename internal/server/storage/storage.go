// Package storage keeps uploaded file bytes in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores opaque blobs by key.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get returns common.ErrorNotFound for unknown keys.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey returns a fresh date-partitioned object key.
func NewKey(now time.Time) string {
	return fmt.Sprintf("arquivos/%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), uuid.New())
}
