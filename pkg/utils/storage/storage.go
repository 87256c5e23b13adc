// Package storage uploads listing media to an S3-compatible bucket.
// Originals are stored as received; no transcoding happens server-side.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"urbankey_backend/pkg/config"
)

type Client struct {
	s3        *s3.Client
	bucket    string
	publicURL string
}

func New(cfg config.StorageConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.Region = "auto"
	})

	return &Client{s3: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

// UploadPropertyImage stores one listing photo under a key derived from the
// property id and a slugged filename, and returns its public URL.
func (c *Client) UploadPropertyImage(ctx context.Context, propertyID string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open upload: %v", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	base := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	key := fmt.Sprintf("properties/%s/%s-%s%s",
		propertyID, slug.Make(base), uuid.NewString()[:8], ext)

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload image: %v", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(c.publicURL, "/"), key), nil
}
