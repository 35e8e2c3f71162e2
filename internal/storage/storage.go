package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alternativa-centar/site/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend and knows the public URL objects
// are served from.
type Storage struct {
	backend       ObjectStorage
	publicBaseURL string
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage, publicBaseURL string) *Storage {
	return &Storage{
		backend:       backend,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// FromConfig builds the configured backend. It returns nil, nil when object
// storage is disabled.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	var backend ObjectStorage
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "minio":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if strings.TrimSpace(cfg.PublicBaseURL) == "" {
		return nil, errors.New("STORAGE_PUBLIC_BASE_URL is required with object storage")
	}
	return NewStorage(backend, cfg.PublicBaseURL), nil
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// URL returns the public address of an object key.
func (s *Storage) URL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL reverses URL. It reports false for addresses outside this
// storage, such as inline data URIs.
func (s *Storage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	return key, key != ""
}
