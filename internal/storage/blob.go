// Package storage archives rendered reports in a blob store with pluggable
// backends.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Common errors for blob storage operations.
var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

// BlobMetadata contains metadata about a stored blob.
type BlobMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// ListOptions configures blob listing behavior.
type ListOptions struct {
	Prefix  string // Only return keys with this prefix
	MaxKeys int    // Maximum number of keys to return (0 = backend default)
	Cursor  string // Pagination cursor from previous ListResult
}

// ListResult contains the results of a list operation.
type ListResult struct {
	Blobs      []BlobMetadata `json:"blobs"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Truncated  bool           `json:"truncated"`
}

// BlobStore is the archive backend. Implementations: FileBlobStore (local
// disk) and S3BlobStore (AWS S3 or any S3-compatible endpoint).
type BlobStore interface {
	// Get retrieves a blob by key. Returns ErrBlobNotFound if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetReader streams a blob. Caller must close the reader.
	GetReader(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores a blob, overwriting any existing one.
	Put(ctx context.Context, key string, data []byte) error

	// PutReader stores size bytes read from r.
	PutReader(ctx context.Context, key string, r io.Reader, size int64) error

	// Delete removes a blob. No error if not found.
	Delete(ctx context.Context, key string) error

	// Exists checks if a blob exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Metadata returns metadata for a blob. Returns ErrBlobNotFound if not found.
	Metadata(ctx context.Context, key string) (*BlobMetadata, error)

	// List returns blobs matching the given options, in key order.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Close releases any resources held by the store.
	Close() error
}
