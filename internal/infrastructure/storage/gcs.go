package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"chartsnap-backend/internal/domain"
)

// GCSStorage uploads artifacts to a Google Cloud Storage bucket.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage builds the bucket client. credentialsPath may be empty, in
// which case application default credentials apply.
func NewGCSStorage(ctx context.Context, bucket, credentialsPath string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: init gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "image/png"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: commit gs://%s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

var _ domain.Storage = (*GCSStorage)(nil)
