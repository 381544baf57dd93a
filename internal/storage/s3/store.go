// Package s3 implements the object store over Amazon S3 (or any
// S3-compatible endpoint such as MinIO). Bytes never pass through the
// server: clients upload and download against presigned URLs.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"docvault/internal/domain/services"
)

// Config holds what the store needs to reach the bucket.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS, set for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
}

// Store is an ObjectStore backed by one S3 bucket.
type Store struct {
	bucket string
	svc    *s3.S3
}

var _ services.ObjectStore = (*Store)(nil)

// NewStore creates a store for the configured bucket.
func NewStore(cfg Config) (*Store, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		// Compatible stores generally route by path, not virtual host.
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating storage session: %w", err)
	}

	return &Store{bucket: cfg.Bucket, svc: s3.New(sess)}, nil
}

// PresignUpload returns a PUT URL for the key.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, _ := s.svc.PutObjectRequest(input)
	req.SetContext(ctx)

	url, err := req.Presign(expires)
	if err != nil {
		return "", fmt.Errorf("presigning upload for %s: %w", key, err)
	}
	return url, nil
}

// PresignDownload returns a GET URL for the key. When filename is set the
// response carries a content-disposition so browsers save it under that
// name.
func (s *Store) PresignDownload(ctx context.Context, key, filename string, expires time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}

	req, _ := s.svc.GetObjectRequest(input)
	req.SetContext(ctx)

	url, err := req.Presign(expires)
	if err != nil {
		return "", fmt.Errorf("presigning download for %s: %w", key, err)
	}
	return url, nil
}

// Delete removes the object. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
