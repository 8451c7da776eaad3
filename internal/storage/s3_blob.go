package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bobmcallan/finsim/internal/common"
)

// S3BlobStore keeps blobs as objects in one bucket, optionally under a key
// prefix. Works against AWS and S3-compatible endpoints (MinIO, R2).
type S3BlobStore struct {
	client *s3.Client
	bucket string
	prefix string
	logger *common.Logger
}

// NewS3BlobStore builds an S3 client from the default AWS credential chain,
// or from static keys when both are configured.
func NewS3BlobStore(ctx context.Context, logger *common.Logger, cfg common.S3Config) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 blob store bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Debug().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Str("endpoint", cfg.Endpoint).Msg("S3BlobStore initialized")
	return &S3BlobStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}, nil
}

// objectKey maps a blob key to an object key under the store prefix.
func (s *S3BlobStore) objectKey(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	return s.prefix + "/" + clean, nil
}

// blobKey is the inverse of objectKey.
func (s *S3BlobStore) blobKey(objectKey string) string {
	if s.prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, s.prefix+"/")
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

// Get retrieves a blob by key.
func (s *S3BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.GetReader(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// GetReader streams an object body.
func (s *S3BlobStore) GetReader(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return out.Body, nil
}

// Put stores a blob.
func (s *S3BlobStore) Put(ctx context.Context, key string, data []byte) error {
	return s.PutReader(ctx, key, bytes.NewReader(data), int64(len(data)))
}

// PutReader uploads size bytes from r with a content type derived from the
// key extension.
func (s *S3BlobStore) PutReader(ctx context.Context, key string, r io.Reader, size int64) error {
	k, err := s.objectKey(key)
	if err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(k),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if ct := mime.TypeByExtension(path.Ext(k)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	s.logger.Trace().Str("key", key).Int64("size", size).Msg("Blob stored")
	return nil
}

// Delete removes an object. S3 reports success for missing keys.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	k, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	}); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Exists checks if an object exists.
func (s *S3BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Metadata(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrBlobNotFound) {
		return false, nil
	}
	return false, err
}

// Metadata returns object metadata from a HEAD request.
func (s *S3BlobStore) Metadata(ctx context.Context, key string) (*BlobMetadata, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to head blob %s: %w", key, err)
	}

	return &BlobMetadata{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

// List returns one page of objects under the prefix. The cursor is the S3
// continuation token.
func (s *S3BlobStore) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.MaxKeys
	if limit <= 0 {
		limit = defaultListLimit
	}

	prefix := opts.Prefix
	if s.prefix != "" {
		prefix = s.prefix + "/" + prefix
	}
	in := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if opts.Cursor != "" {
		in.ContinuationToken = aws.String(opts.Cursor)
	}

	out, err := s.client.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	res := &ListResult{
		Blobs:      make([]BlobMetadata, 0, len(out.Contents)),
		Truncated:  aws.ToBool(out.IsTruncated),
		NextCursor: aws.ToString(out.NextContinuationToken),
	}
	for _, obj := range out.Contents {
		res.Blobs = append(res.Blobs, BlobMetadata{
			Key:          s.blobKey(aws.ToString(obj.Key)),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
		})
	}
	return res, nil
}

// Close is a no-op; the SDK client holds no closable resources.
func (s *S3BlobStore) Close() error {
	return nil
}
