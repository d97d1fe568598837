// File: internal/storage/s3.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/config"
)

// Service defines object storage operations for verification documents.
type Service interface {
	SignedURL(ctx context.Context, storedRef string) (string, error)
	Upload(ctx context.Context, key string, body io.Reader, contentType string, upsert bool) error
}

// S3Service implements Service against an S3 or S3-compatible bucket.
type S3Service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
	logger    *zap.Logger
}

var _ Service = (*S3Service)(nil)

// NewS3Service builds the S3 client from the application config. A custom
// endpoint switches the client to path-style addressing for S3-compatible
// stores.
func NewS3Service(cfg *config.Config, logger *zap.Logger) (*S3Service, error) {
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.StorageRegion),
	)
	if err != nil {
		logger.Error("Failed to load AWS configuration", zap.Error(err))
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.StorageBucket), zap.String("region", cfg.StorageRegion))

	return &S3Service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.StorageBucket,
		expiry:    cfg.SignedURLExpiry,
		logger:    logger.Named("storage_service"),
	}, nil
}

// SignedURL normalizes a stored reference and returns a presigned GET URL.
func (s *S3Service) SignedURL(ctx context.Context, storedRef string) (string, error) {
	key, err := NormalizeObjectKey(s.bucket, storedRef)
	if err != nil {
		return "", err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logger.Error("Failed to presign object URL", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to presign URL for %q: %w", key, err)
	}
	return req.URL, nil
}

// Upload stores an object. With upsert false an existing object under the
// same key is an error rather than silently overwritten.
func (s *S3Service) Upload(ctx context.Context, key string, body io.Reader, contentType string, upsert bool) error {
	normalized, err := NormalizeObjectKey(s.bucket, key)
	if err != nil {
		return err
	}

	if !upsert {
		_, headErr := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(normalized),
		})
		if headErr == nil {
			return fmt.Errorf("object %q already exists", normalized)
		}
		var notFound *types.NotFound
		if !errors.As(headErr, &notFound) {
			return fmt.Errorf("failed to check object %q: %w", normalized, headErr)
		}
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(normalized),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload object", zap.Error(err), zap.String("key", normalized))
		return fmt.Errorf("failed to upload object %q: %w", normalized, err)
	}
	s.logger.Debug("Object uploaded", zap.String("key", normalized), zap.Bool("upsert", upsert))
	return nil
}
