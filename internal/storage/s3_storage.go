package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/config"
)

// IPhotoStorage defines the interface for property photo persistence.
type IPhotoStorage interface {
	Upload(ctx context.Context, propertyID, filename, contentType string, body io.Reader) (string, string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	URLFor(key string) string
}

// s3Storage implements IPhotoStorage against an S3 bucket.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates a new S3-backed photo storage service.
func NewS3Storage(cfg *config.Config) (IPhotoStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload stores a photo under a property-scoped key and returns the key
// and its public URL. The filename is sanitized to its base name.
func (s *s3Storage) Upload(ctx context.Context, propertyID, filename, contentType string, body io.Reader) (string, string, error) {
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	objectKey := fmt.Sprintf("properties/%s/%s_%s", propertyID, uuid.NewString(), filename)

	data, err := io.ReadAll(body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read photo %s: %w", filename, err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload photo to key %s: %w", objectKey, err)
	}

	return objectKey, s.URLFor(objectKey), nil
}

// Download fetches an object's bytes. Used by the image processing task.
func (s *s3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// URLFor maps an object key to its public URL.
func (s *s3Storage) URLFor(key string) string {
	base := strings.TrimRight(s.cfg.PhotoBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.AwsS3Bucket, s.cfg.AwsRegion)
	}
	return base + "/" + key
}
