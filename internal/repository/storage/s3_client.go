package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	cfg "github.com/dafibh/prolink/prolink-backend/internal/config"
)

// s3API is the part of *s3.Client used here
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

var _ Strategy = (*S3ObjectClient)(nil)

// S3ObjectClient uploads through the S3 protocol endpoint
type S3ObjectClient struct {
	api s3API
}

// NewS3ObjectClient creates an S3 client for the configured endpoint
func NewS3ObjectClient(ctx context.Context, s3cfg cfg.S3Config) (*S3ObjectClient, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
		}
		// Supabase and MinIO only serve path-style requests
		o.UsePathStyle = true
	})

	return NewS3ObjectClientWithAPI(client), nil
}

// NewS3ObjectClientWithAPI wraps an existing S3 API implementation
func NewS3ObjectClientWithAPI(api s3API) *S3ObjectClient {
	return &S3ObjectClient{api: api}
}

// Name implements Strategy
func (c *S3ObjectClient) Name() string {
	return "s3"
}

// Upload puts a publicly readable object
func (c *S3ObjectClient) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return classifyS3Error("failed to upload object", err)
	}
	return nil
}

// CheckBucket checks the bucket with HeadBucket
func (c *S3ObjectClient) CheckBucket(ctx context.Context, bucket string) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		return classifyS3Error("failed to check bucket", err)
	}
	return nil
}

func classifyS3Error(op string, err error) error {
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return bucketMissing(fmt.Errorf("%s: %w", op, err))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket" {
		return bucketMissing(fmt.Errorf("%s: %w", op, err))
	}

	return fmt.Errorf("%s: %w", op, err)
}
