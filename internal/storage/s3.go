package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"server/internal/domain"
)

// S3Store persists audio artifacts in an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Config holds configuration for the S3 backend.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional custom endpoint (MinIO, LocalStack)
	Prefix   string // optional key prefix
}

// NewS3Store creates an S3-backed object store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO/LocalStack
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Put uploads data under key. The conditional write makes an existing object
// at the same key fail with domain.ErrObjectExists instead of being replaced.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullKey := s.prefix + cleanKey

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return "", fmt.Errorf("storage: key %q: %w", cleanKey, domain.ErrObjectExists)
		}
		return "", fmt.Errorf("storage: s3 put: %w", err)
	}
	return cleanKey, nil
}

// Get downloads the object stored at key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + cleanKey),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("storage: key %q: %w", cleanKey, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: s3 get: %w", err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

// Delete removes the object stored at key. S3 treats deleting a missing key
// as success, which keeps compensation paths idempotent.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + cleanKey),
	}); err != nil {
		return fmt.Errorf("storage: s3 delete: %w", err)
	}
	return nil
}
