package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/alternativa-centar/site/config"
	"google.golang.org/api/option"
)

// GCSClient stores uploaded images in a Google Cloud Storage bucket.
// Objects are served publicly, so the bucket uses uniform access and read
// permission is granted on the bucket rather than per object.
type GCSClient struct {
	client    *storage.Client
	bucket    string
	projectID string
	location  string
}

func NewGCSClient(ctx context.Context, cfg config.GCSConfig) (*GCSClient, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("GCS_BUCKET is required with the gcs storage backend")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	return &GCSClient{
		client:    client,
		bucket:    cfg.Bucket,
		projectID: cfg.ProjectID,
		location:  cfg.Location,
	}, nil
}

// EnsureBucket creates the image bucket when it is missing.
func (g *GCSClient) EnsureBucket(ctx context.Context) error {
	_, err := g.client.Bucket(g.bucket).Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return err
	}
	if strings.TrimSpace(g.projectID) == "" {
		return errors.New("GCS_PROJECT_ID is required to create the bucket")
	}
	return g.client.Bucket(g.bucket).Create(ctx, g.projectID, bucketAttrs(g.location))
}

// Put uploads an image. Images are small, so the upload is a single request.
func (g *GCSClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	writer := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	writer.ObjectAttrs = objectAttrs(key, contentType)
	writer.ChunkSize = 0
	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return writer.Close()
}

func (g *GCSClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
}

// Delete removes an image. Missing objects are not an error.
func (g *GCSClient) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCSClient) Bucket() string {
	return g.bucket
}

func bucketAttrs(location string) *storage.BucketAttrs {
	return &storage.BucketAttrs{
		Location:                 location,
		UniformBucketLevelAccess: storage.UniformBucketLevelAccess{Enabled: true},
		Labels:                   map[string]string{"app": "alternativa"},
	}
}

func objectAttrs(key, contentType string) storage.ObjectAttrs {
	attrs := storage.ObjectAttrs{
		Name:         key,
		ContentType:  contentType,
		CacheControl: immutableCacheControl,
		Metadata:     map[string]string{},
	}
	if collection := CollectionOf(key); collection != "" {
		attrs.Metadata["collection"] = collection
	}
	return attrs
}
