package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kunospw/b-log/internal/config"
)

// ObjectUploader stores an object under a key and returns its public URL.
// The S3 implementation is the only one in production; tests substitute
// their own.
type ObjectUploader interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// s3Uploader implements ObjectUploader against an S3 bucket. Uploaded
// objects are served through the configured public base URL (a CloudFront
// distribution or the bucket's website endpoint).
type s3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader creates an uploader using the default AWS credential chain
// (env vars, shared config, instance role).
func NewS3Uploader(ctx context.Context, cfg config.ImageHostConfig) (ObjectUploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &s3Uploader{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads the object and returns its public URL.
func (u *s3Uploader) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}

	return u.publicBaseURL + "/" + key, nil
}
