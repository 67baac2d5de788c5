package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/yoockh/jobboard/internal/utils"
)

// GCSStore keeps objects in a bucket. Public reads of served prefixes are
// granted at bucket level, not per object.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required for the gcs storage backend")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	name, err := CleanObjectName(objectName)
	if err != nil {
		return "", err
	}
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (s *GCSStore) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	rd, err := s.client.Bucket(s.bucket).Object(storedPath).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *GCSStore) Delete(ctx context.Context, storedPath string) error {
	err := s.client.Bucket(s.bucket).Object(storedPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) PublicURL(storedPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, storedPath)
}
