package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sudalaiyandi2004/cyber-backend/internal/api/metrics"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// MinioStore persists attachments in a MinIO (S3-compatible) bucket. The
// object key doubles as the deletion handle.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// MinioConfig captures the settings for a MinIO-backed media store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioStore{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}, nil
}

// Upload stores the attachment under a generated object key and returns its
// public URL and the key as deletion handle.
func (s *MinioStore) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (*ports.MediaUpload, error) {
	key := uuid.NewString() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("minio put object: %w", err)
	}

	metrics.MediaUploadsTotal.WithLabelValues("minio").Inc()

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return &ports.MediaUpload{
		URL: fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key),
		Key: key,
	}, nil
}

// Delete removes the object identified by key.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
