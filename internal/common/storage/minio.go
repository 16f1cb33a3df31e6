package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds object storage settings for MinIO / S3-compatible backends.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
}

// MinIOStorage implements ObjectStorage using MinIO S3-compatible APIs.
type MinIOStorage struct {
	client *minio.Client
}

func NewMinIOStorage(cfg MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("minio accessKey is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio secretKey is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &MinIOStorage{client: client}, nil
}

// RemoveObjects deletes the given keys in one batch request.
// Per-key failures are collected into the result instead of failing fast,
// so the caller can see everything the backend rejected.
func (s *MinIOStorage) RemoveObjects(ctx context.Context, bucket string, keys []string) (RemoveResult, error) {
	if len(keys) == 0 {
		return RemoveResult{}, nil
	}
	if s.client == nil {
		return RemoveResult{}, fmt.Errorf("minio client is nil")
	}

	objCh := make(chan minio.ObjectInfo, len(keys))
	submitted := 0
	for _, key := range keys {
		if key == "" {
			continue
		}
		objCh <- minio.ObjectInfo{Key: key}
		submitted++
	}
	close(objCh)

	var failures []KeyFailure
	errCh := s.client.RemoveObjects(ctx, bucket, objCh, minio.RemoveObjectsOptions{})
	for removeErr := range errCh {
		if removeErr.Err != nil {
			failures = append(failures, KeyFailure{
				Key:     removeErr.ObjectName,
				Message: removeErr.Err.Error(),
			})
		}
	}

	return RemoveResult{
		Deleted:  submitted - len(failures),
		Failures: failures,
	}, nil
}

// BucketExists reports whether the configured bucket is present.
func (s *MinIOStorage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if s.client == nil {
		return false, fmt.Errorf("minio client is nil")
	}
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("minio bucket exists check failed: %w", err)
	}
	return exists, nil
}
