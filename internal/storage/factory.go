package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/finsim/internal/common"
)

// Backend type constants.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// NewBlobStore creates the archive backend named in the configuration.
// An empty backend means "file".
func NewBlobStore(ctx context.Context, logger *common.Logger, cfg common.StorageConfig) (BlobStore, error) {
	backend := strings.ToLower(cfg.Backend)
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileBlobStore(logger, cfg.File.Path)
	case BackendS3:
		return NewS3BlobStore(ctx, logger, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, s3)", cfg.Backend)
	}
}
