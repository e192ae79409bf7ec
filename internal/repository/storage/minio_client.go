package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	cfg "github.com/dafibh/prolink/prolink-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the part of *minio.Client used here
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioClientWrapper adapts *minio.Client to minioAPI
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

var _ Strategy = (*MinIOObjectClient)(nil)

// MinIOObjectClient uploads to a self-hosted S3-compatible server
type MinIOObjectClient struct {
	api minioAPI
}

// NewMinIOObjectClient creates a client from the endpoint URL. The
// endpoint must be a bare host; minio-go does not accept path prefixes.
func NewMinIOObjectClient(s3cfg cfg.S3Config) (*MinIOObjectClient, error) {
	endpoint, err := url.Parse(s3cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage endpoint: %w", err)
	}
	if endpoint.Host == "" {
		return nil, fmt.Errorf("storage endpoint %q has no host", s3cfg.Endpoint)
	}
	if endpoint.Path != "" && endpoint.Path != "/" {
		return nil, fmt.Errorf("storage endpoint %q must not contain a path for the minio client", s3cfg.Endpoint)
	}

	client, err := minio.New(endpoint.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: endpoint.Scheme == "https",
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return NewMinIOObjectClientWithAPI(minioClientWrapper{c: client}), nil
}

// NewMinIOObjectClientWithAPI allows injecting a fake API
func NewMinIOObjectClientWithAPI(api minioAPI) *MinIOObjectClient {
	return &MinIOObjectClient{api: api}
}

// Name implements Strategy
func (c *MinIOObjectClient) Name() string {
	return "minio"
}

// Upload puts a publicly readable object
func (c *MinIOObjectClient) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		if isNoSuchBucket(err) {
			return bucketMissing(fmt.Errorf("failed to upload object: %w", err))
		}
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// CheckBucket checks that the bucket exists
func (c *MinIOObjectClient) CheckBucket(ctx context.Context, bucket string) error {
	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return bucketMissing(fmt.Errorf("bucket %q does not exist", bucket))
	}
	return nil
}

func isNoSuchBucket(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchBucket"
}
