// Package storage caches gateway media objects in MinIO so repeated plays of
// the same CID don't round-trip to the public gateway.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/VYD3N/tezos-music-player/config"
	"github.com/VYD3N/tezos-music-player/logger"
)

var (
	minioClient *minio.Client
	minioBucket string
)

// InitMinio initializes the MinIO client and ensures the media bucket exists.
// Returns without error when no endpoint is configured; the media handler
// then proxies the gateway directly.
func InitMinio(cfg *config.Config) error {
	if cfg.MinioEndpoint == "" {
		logger.Info("MinIO not configured, media caching disabled")
		return nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check media bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create media bucket: %w", err)
		}
		logger.Info("media bucket created", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioBucket = cfg.MinioBucket
	logger.Info("MinIO media cache ready",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))
	return nil
}

// CacheEnabled reports whether the media cache is available.
func CacheEnabled() bool {
	return minioClient != nil
}

// GetMediaObject fetches a cached media object by CID. Returns the object
// stream and its content type; a cache miss returns an error.
func GetMediaObject(ctx context.Context, cid string) (io.ReadCloser, string, error) {
	if minioClient == nil {
		return nil, "", fmt.Errorf("media cache not initialized")
	}

	object, err := minioClient.GetObject(ctx, minioBucket, cid, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get media object %s: %w", cid, err)
	}

	// GetObject is lazy; Stat forces the miss to surface here.
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, "", fmt.Errorf("media object %s not cached: %w", cid, err)
	}
	return object, info.ContentType, nil
}

// PutMediaObject stores a media object under its CID. size may be -1 when the
// gateway response carries no length.
func PutMediaObject(ctx context.Context, cid, contentType string, data io.Reader, size int64) error {
	if minioClient == nil {
		return fmt.Errorf("media cache not initialized")
	}

	_, err := minioClient.PutObject(ctx, minioBucket, cid, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to cache media object %s: %w", cid, err)
	}
	return nil
}
