package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bobmcallan/finsim/internal/common"
)

const defaultListLimit = 1000

// FileBlobStore keeps blobs as files under a base directory.
// Key "reports/<id>/report.pdf" maps to "{basePath}/reports/<id>/report.pdf".
type FileBlobStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileBlobStore creates the base directory if needed.
func NewFileBlobStore(logger *common.Logger, basePath string) (*FileBlobStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("file blob store path is required")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}

	logger.Debug().Str("path", basePath).Msg("FileBlobStore initialized")
	return &FileBlobStore{basePath: basePath, logger: logger}, nil
}

// cleanKey normalizes a key to a relative slash path. Keys that escape the
// base directory are rejected.
func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(key))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return clean, nil
}

func (fb *FileBlobStore) keyToPath(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(fb.basePath, filepath.FromSlash(clean)), nil
}

// Get retrieves a blob by key.
func (fb *FileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := fb.keyToPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// GetReader opens a blob for streaming.
func (fb *FileBlobStore) GetReader(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := fb.keyToPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return f, nil
}

// Put stores a blob atomically.
func (fb *FileBlobStore) Put(ctx context.Context, key string, data []byte) error {
	return fb.PutReader(ctx, key, bytes.NewReader(data), int64(len(data)))
}

// PutReader writes to a temp file in the target directory, then renames it
// into place.
func (fb *FileBlobStore) PutReader(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := fb.keyToPath(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move blob %s into place: %w", key, err)
	}

	fb.logger.Trace().Str("key", key).Int64("size", size).Msg("Blob stored")
	return nil
}

// Delete removes a blob and prunes directories it leaves empty.
func (fb *FileBlobStore) Delete(ctx context.Context, key string) error {
	p, err := fb.keyToPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}

	base := filepath.Clean(fb.basePath)
	for dir := filepath.Dir(p); dir != base && strings.HasPrefix(dir, base); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break // not empty
		}
	}
	return nil
}

// Exists checks if a blob exists.
func (fb *FileBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := fb.keyToPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check blob %s: %w", key, err)
}

// Metadata returns size, modification time, content type and an MD5 ETag.
func (fb *FileBlobStore) Metadata(ctx context.Context, key string) (*BlobMetadata, error) {
	p, err := fb.keyToPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat blob %s: %w", key, err)
	}
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to hash blob %s: %w", key, err)
	}

	return &BlobMetadata{
		Key:          key,
		Size:         info.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(p)),
		LastModified: info.ModTime(),
		ETag:         hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// List walks the directory holding the prefix. The cursor is the last key of
// the previous page.
func (fb *FileBlobStore) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.MaxKeys
	if limit <= 0 {
		limit = defaultListLimit
	}

	root := fb.basePath
	if dir := path.Dir(opts.Prefix); opts.Prefix != "" && dir != "." {
		root = filepath.Join(fb.basePath, filepath.FromSlash(dir))
	}

	var blobs []BlobMetadata
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}

		rel, err := filepath.Rel(fb.basePath, p)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, opts.Prefix) || (opts.Cursor != "" && key <= opts.Cursor) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		blobs = append(blobs, BlobMetadata{
			Key:          key,
			Size:         info.Size(),
			ContentType:  mime.TypeByExtension(filepath.Ext(p)),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Key < blobs[j].Key })

	res := &ListResult{Blobs: blobs}
	if len(blobs) > limit {
		res.Blobs = blobs[:limit]
		res.Truncated = true
		res.NextCursor = blobs[limit-1].Key
	}
	return res, nil
}

// Close is a no-op for file storage.
func (fb *FileBlobStore) Close() error {
	return nil
}
