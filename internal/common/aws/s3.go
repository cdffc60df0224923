// internal/common/aws/s3.go
package aws

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the blob store client.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // Optional custom endpoint (for MinIO, LocalStack, etc.)
	PublicBaseURL string // Optional CDN/base URL for returned object URLs
}

// S3Client uploads application and response documents to a public bucket.
type S3Client struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO/LocalStack
		}
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Client{
		client:        s3.NewFromConfig(awsCfg, clientOpts),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Upload stores the object under key and returns its publicly retrievable URL.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}

	return c.publicBaseURL + "/" + key, nil
}
