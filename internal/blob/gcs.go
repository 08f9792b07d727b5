package blob

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSStore keeps photo blobs in a Cloud Storage bucket, one object per
// blob reference.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCS opens a Cloud Storage client against the given bucket. Credentials
// come from the environment (application default credentials).
func NewGCS(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(ref).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) (int64, error) {
	obj := s.client.Bucket(s.bucket).Object(ref)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return attrs.Size, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error { return s.client.Close() }
