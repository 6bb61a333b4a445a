package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// ErrS3NotConfigured is returned by NewS3Config when exports cannot work,
// for instance without a bucket or without AWS credentials to sign with.
var ErrS3NotConfigured = errors.New("s3 export not configured")

// credentialsCheckTimeout bounds the credential lookup at startup, which may
// reach the instance metadata service.
const credentialsCheckTimeout = 5 * time.Second

// NewS3Config initializes the S3 client for history exports. S3_BUCKET_NAME
// and AWS_REGION override the settings file. Credentials are resolved up
// front so a missing setup disables exports instead of failing each upload.
func NewS3Config(ctx context.Context, export ExportSettings) (*S3Config, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		bucket = export.Bucket
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = export.Region
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrS3NotConfigured)
	}

	// Load AWS config from environment or shared config
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrS3NotConfigured)
	}
	if awsCfg.Credentials == nil {
		return nil, fmt.Errorf("%w: no credentials provider", ErrS3NotConfigured)
	}

	checkCtx, cancel := context.WithTimeout(ctx, credentialsCheckTimeout)
	defer cancel()
	if _, err := awsCfg.Credentials.Retrieve(checkCtx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrS3NotConfigured, err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Config{
		Client:     client,
		BucketName: bucket,
	}, nil
}

// PutObject uploads body under objectKey
func (s *S3Config) PutObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

// GeneratePresignedURL generates a presigned URL for the given object key with the specified expiration time
func (s *S3Config) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.Client)
	presignedURL, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
