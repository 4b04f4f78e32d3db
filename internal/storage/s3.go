package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3-compatible bucket. Endpoint is optional for AWS and
// required for R2 ("https://<account>.r2.cloudflarestorage.com") or MinIO.
type S3Options struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

// S3 stores uploads in a bucket and hands out presigned GET URLs.
type S3 struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewS3 builds the client once; the credentials are static when given and
// otherwise resolved from the default AWS chain.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not set")
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}

	loaders := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     opts.Bucket,
		presignTTL: opts.PresignTTL,
	}, nil
}

func (s *S3) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectPath),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", objectPath, err)
	}
	return objectPath, nil
}

func (s *S3) DownloadURL(ctx context.Context, objectPath string) (string, error) {
	presigned, err := s.presigner.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		},
		func(po *s3.PresignOptions) {
			po.Expires = s.presignTTL
		},
	)
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", objectPath, err)
	}
	return presigned.URL, nil
}

func (s *S3) Delete(ctx context.Context, objectPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", objectPath, err)
	}
	return nil
}
