package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// supabaseStorageAPI is the part of *storage_go.Client used here
type supabaseStorageAPI interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetBucket(id string) (storage_go.Bucket, error)
	ListBuckets() ([]storage_go.Bucket, error)
	CreateBucket(id string, options storage_go.BucketOptions) (storage_go.Bucket, error)
}

var (
	_ Strategy    = (*SupabaseStorageClient)(nil)
	_ BucketAdmin = (*SupabaseStorageClient)(nil)
)

// SupabaseStorageClient uploads through the Supabase Storage SDK
type SupabaseStorageClient struct {
	api supabaseStorageAPI
}

// NewSupabaseStorageClient creates a client for {supabaseURL}/storage/v1
// authenticated with the project's API key
func NewSupabaseStorageClient(supabaseURL, apiKey string) *SupabaseStorageClient {
	endpoint := strings.TrimRight(supabaseURL, "/") + "/storage/v1"
	client := storage_go.NewClient(endpoint, apiKey, map[string]string{"apikey": apiKey})
	return &SupabaseStorageClient{api: client}
}

// NewSupabaseStorageClientWithAPI creates a client around an existing SDK client
func NewSupabaseStorageClientWithAPI(api supabaseStorageAPI) *SupabaseStorageClient {
	return &SupabaseStorageClient{api: api}
}

// Name implements Strategy
func (c *SupabaseStorageClient) Name() string {
	return "supabase-storage"
}

// Upload creates or overwrites the object
func (c *SupabaseStorageClient) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := true
	_, err := c.api.UploadFile(bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return classifySupabaseError("failed to upload object", err)
	}
	return nil
}

// CheckBucket fetches the bucket metadata
func (c *SupabaseStorageClient) CheckBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.api.GetBucket(bucket); err != nil {
		return classifySupabaseError("failed to get bucket", err)
	}
	return nil
}

// BucketExists implements BucketAdmin
func (c *SupabaseStorageClient) BucketExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	buckets, err := c.api.ListBuckets()
	if err != nil {
		return false, fmt.Errorf("failed to list buckets: %w", err)
	}
	for _, b := range buckets {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateBucket implements BucketAdmin
func (c *SupabaseStorageClient) CreateBucket(ctx context.Context, spec BucketSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.api.CreateBucket(spec.Name, storage_go.BucketOptions{
		Public:           spec.Public,
		FileSizeLimit:    spec.FileSizeLimit(),
		AllowedMimeTypes: spec.AllowedMIMETypes,
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", spec.Name, err)
	}
	return nil
}

// classifySupabaseError marks "Bucket not found" responses as ErrBucketMissing
func classifySupabaseError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if strings.Contains(strings.ToLower(err.Error()), "bucket not found") {
		return bucketMissing(wrapped)
	}
	return wrapped
}
