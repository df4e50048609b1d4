package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

var _ domain.PhotoArchive = (*S3Archive)(nil)

// S3Config points the archive at an S3-compatible bucket (AWS, R2, MinIO).
type S3Config struct {
	Bucket        string
	Endpoint      string // empty for AWS
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// objectPutter is the slice of the S3 client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores uploaded ingredient photos under photos/<uuid><ext>.
type S3Archive struct {
	client  objectPutter
	bucket  string
	baseURL string
	log     *logger.Logger
}

// NewS3Archive builds an archive from static credentials, or the default
// AWS credential chain when no keys are given.
func NewS3Archive(ctx context.Context, cfg S3Config, log *logger.Logger) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: missing bucket")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archive(client, cfg.Bucket, cfg.PublicBaseURL, log), nil
}

func newS3Archive(client objectPutter, bucket, baseURL string, log *logger.Logger) *S3Archive {
	return &S3Archive{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Put uploads img and returns its public URL (or s3:// location when no
// public base URL is configured).
func (a *S3Archive) Put(ctx context.Context, img domain.Image) (string, error) {
	key := "photos/" + uuid.NewString() + extensionFor(img.MimeType)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.MimeType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	a.log.Debug("s3: archived %s (%d bytes)", key, len(img.Data))

	if a.baseURL == "" {
		return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
	}
	return a.baseURL + "/" + key, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}
