package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backup mirrors the subscriber file to an S3 bucket after each save.
// It is strictly best-effort: the local file remains the source of truth
// and upload failures are only logged by the caller.
type S3Backup struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Backup creates an S3 mirror using the default AWS credential chain,
// optionally pinned to a shared-config profile.
func NewS3Backup(ctx context.Context, bucket, region, profile, key string) (*S3Backup, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Backup{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

// Bucket returns the configured bucket name.
func (b *S3Backup) Bucket() string { return b.bucket }

// Upload writes the serialized collection to the configured key.
func (b *S3Backup) Upload(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("putting object to S3: %w", err)
	}
	return nil
}
