package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"distrofm/config"
	"distrofm/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client and ensures the asset bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created asset bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	logger.Info("MinIO client initialized", logger.String("bucket", cfg.MinioBucket))
	return nil
}

// GetMinioClient returns the MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// AssetStore answers existence checks for release assets. The validator uses
// it to verify that cover art and audio files referenced by metadata are
// actually present before distribution.
type AssetStore interface {
	CoverArtExists(ctx context.Context, name string) (bool, error)
	AudioFileExists(ctx context.Context, name string) (bool, error)
}

// minioAssetStore implements AssetStore against the shared MinIO bucket.
// Cover art lives under covers/, audio under audio/.
type minioAssetStore struct {
	client *minio.Client
	bucket string
}

// NewMinioAssetStore creates an AssetStore on the initialized MinIO client.
func NewMinioAssetStore(cfg *config.Config) AssetStore {
	return &minioAssetStore{client: minioClient, bucket: cfg.MinioBucket}
}

func (s *minioAssetStore) CoverArtExists(ctx context.Context, name string) (bool, error) {
	return s.objectExists(ctx, path.Join("covers", name))
}

func (s *minioAssetStore) AudioFileExists(ctx context.Context, name string) (bool, error) {
	return s.objectExists(ctx, path.Join("audio", name))
}

func (s *minioAssetStore) objectExists(ctx context.Context, objectName string) (bool, error) {
	if s.client == nil {
		return false, fmt.Errorf("MinIO client not initialized")
	}

	_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", objectName, err)
	}
	return true, nil
}
