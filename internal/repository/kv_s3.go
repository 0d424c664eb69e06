package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"swipe-match-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3KV stores each key as one object in a bucket
type S3KV struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Client builds an S3 client. Static credentials are used when both keys
// are set, otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg config.AWSConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3KV creates an S3-backed store writing under prefix in bucket
func NewS3KV(client *s3.Client, bucket, prefix string) *S3KV {
	return &S3KV{client: client, bucket: bucket, prefix: prefix}
}

func (r *S3KV) objectKey(key string) string {
	return path.Join(r.prefix, key+".json")
}

func (r *S3KV) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get object for key %q: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read object for key %q: %w", key, err)
	}
	return string(body), true, nil
}

func (r *S3KV) Set(ctx context.Context, key, value string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object for key %q: %w", key, err)
	}
	return nil
}

func (r *S3KV) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.objectKey(key)),
	})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("failed to delete object for key %q: %w", key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	// S3-compatible services do not always return the typed error.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
