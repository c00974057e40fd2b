package hetzner

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the bucket surface of the S3-compatible object
// storage, narrowed for testing.
type ObjectStore interface {
	CreateBucket(ctx context.Context, name string) error
	DeleteBucket(ctx context.Context, name string) error
	BucketExists(ctx context.Context, name string) (bool, error)
}

// S3Store implements ObjectStore against Hetzner Object Storage.
type S3Store struct {
	s3 *s3.Client
}

// NewS3Store builds a store for the configured endpoint and keys.
func NewS3Store(cfg ObjectStorageConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		// Hetzner serves buckets virtual-hosted style.
		o.UsePathStyle = false
	})
	return &S3Store{s3: client}, nil
}

// CreateBucket creates a bucket. A bucket that already exists under
// this project is not an error.
func (s *S3Store) CreateBucket(ctx context.Context, name string) error {
	_, err := s.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isBucketAlreadyOwned(err) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return nil
}

// DeleteBucket deletes a bucket. The bucket must be empty.
func (s *S3Store) DeleteBucket(ctx context.Context, name string) error {
	_, err := s.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isBucketMissing(err) {
			return nil
		}
		return fmt.Errorf("failed to delete bucket %s: %w", name, err)
	}
	return nil
}

// BucketExists checks if a bucket exists and is accessible.
func (s *S3Store) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := s.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if isBucketMissing(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	return true, nil
}

// CreateBucket creates a cloud core filer bucket on the object storage.
func (b *Backend) CreateBucket(ctx context.Context, name string) error {
	store, err := b.objectStore()
	if err != nil {
		return err
	}
	return store.CreateBucket(ctx, name)
}

// DeleteBucket removes a bucket.
func (b *Backend) DeleteBucket(ctx context.Context, name string) error {
	store, err := b.objectStore()
	if err != nil {
		return err
	}
	return store.DeleteBucket(ctx, name)
}

// AuthorizeBucket verifies the bucket is reachable with the configured
// keys and returns the name of the cloud credential the cluster
// attaches the filer with.
func (b *Backend) AuthorizeBucket(ctx context.Context, name string) (string, error) {
	store, err := b.objectStore()
	if err != nil {
		return "", err
	}
	exists, err := store.BucketExists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("bucket not found: %s", name)
	}
	return b.cfg.ObjectStorage.Credential, nil
}

func (b *Backend) objectStore() (ObjectStore, error) {
	if b.store == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return b.store, nil
}
