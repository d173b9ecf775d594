package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awscredentials "github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"taskbridge.backend/internal/config"
)

// SignedURLExpiry bounds how long a presigned download link stays valid
const SignedURLExpiry = time.Hour

// S3Client wraps an S3-compatible bucket for task attachments. A custom
// endpoint switches the client into path-style mode for MinIO and friends.
type S3Client struct {
	svc    *s3.S3
	bucket string
}

// NewS3Client creates a client from storage configuration
func NewS3Client(cfg config.StorageConfig) (*S3Client, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(awscredentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""))
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return &S3Client{svc: s3.New(sess), bucket: cfg.Bucket}, nil
}

// Upload writes the object under key
func (c *S3Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Download reads the whole object under key
func (c *S3Client) Download(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

// SignedDownloadURL returns a presigned GET link for the object
func (c *S3Client) SignedDownloadURL(key string) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(SignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign object url: %w", err)
	}
	return url, nil
}

