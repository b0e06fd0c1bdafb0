package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

// S3API is the part of the S3 client the catalogue store needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Storage keeps the catalogue as a single JSON object.
type S3Storage struct {
	client           S3API
	bucketName       string
	objectKey        string
	permissionPrefix string
	reloader         domain.CatalogueReloader
	logger           *slog.Logger
}

func NewS3Storage(cfg aws.Config, bucketName, objectKey, permissionPrefix string, reloader domain.CatalogueReloader, logger *slog.Logger) *S3Storage {
	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucketName, objectKey, permissionPrefix, reloader, logger)
}

func NewS3StorageWithClient(client S3API, bucketName, objectKey, permissionPrefix string, reloader domain.CatalogueReloader, logger *slog.Logger) *S3Storage {
	return &S3Storage{
		client:           client,
		bucketName:       bucketName,
		objectKey:        objectKey,
		permissionPrefix: permissionPrefix,
		reloader:         reloader,
		logger:           logger,
	}
}

func (s *S3Storage) LoadAll(ctx context.Context) (*domain.Catalogue, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucketName,
		Key:    &s.objectKey,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			s.logger.DebugContext(ctx, "kit catalogue object missing, starting empty", "bucket", s.bucketName, "key", s.objectKey)
			return domain.NewCatalogue(), nil
		}
		return nil, fmt.Errorf("%w: get catalogue object from S3: %v", app_errors.ErrStorage, err)
	}
	defer func() {
		if err := output.Body.Close(); err != nil {
			s.logger.Error("failed to close S3 object body", "error", err)
		}
	}()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalogue object: %v", app_errors.ErrStorage, err)
	}
	return decodeCatalogue(data, s.permissionPrefix)
}

func (s *S3Storage) SaveAll(ctx context.Context, cat *domain.Catalogue) error {
	data, err := encodeCatalogue(cat)
	if err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucketName,
		Key:         &s.objectKey,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("%w: put catalogue object to S3: %v", app_errors.ErrStorage, err)
	}

	s.logger.DebugContext(ctx, "kit catalogue saved", "bucket", s.bucketName, "key", s.objectKey, "kits", cat.Len())
	signalReload(s.reloader)
	return nil
}

func (s *S3Storage) HealthCheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: &s.bucketName,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "S3 health check failed", "error", err)
		return fmt.Errorf("%w: S3 health check failed: %v", app_errors.ErrDependencyUnavailable, err)
	}
	return nil
}
