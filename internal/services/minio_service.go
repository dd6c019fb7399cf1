package services

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"movie-catalog/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PosterStorage holds uploaded poster images.
type PosterStorage interface {
	GeneratePresignedURL(ctx context.Context, filename, contentType string) (string, string, error)
	// Owns reports whether poster points at an object in this storage.
	Owns(poster string) bool
	DeleteFile(ctx context.Context, poster string) error
}

const presignExpiry = 15 * time.Minute

type MinIOService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *logrus.Logger
}

func NewMinIOService(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		logger:    logger,
	}

	if err := service.ensureBucket(context.Background(), cfg.Region); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, but continuing...")
	}

	return service, nil
}

func (s *MinIOService) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read")
	return nil
}

// GeneratePresignedURL returns a PUT URL for a new poster object and the
// public URL the poster will be served from once uploaded.
func (s *MinIOService) GeneratePresignedURL(ctx context.Context, filename, contentType string) (string, string, error) {
	objectPath := posterObjectName(filename, uuid.NewString()[:8])

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, objectPath, presignExpiry)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presigned URL")
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	publicURL := publicObjectURL(s.publicURL, s.bucket, objectPath)

	s.logger.WithFields(logrus.Fields{
		"filename":    filename,
		"contentType": contentType,
		"objectPath":  objectPath,
		"expiry":      presignExpiry,
	}).Info("Generated presigned URL")

	return presignedURL.String(), publicURL, nil
}

// Owns reports whether poster is an object URL served from our public host
// and bucket.
func (s *MinIOService) Owns(poster string) bool {
	u, err := url.Parse(poster)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host == publicHost(s.publicURL) && strings.HasPrefix(u.Path, "/"+s.bucket+"/")
}

func (s *MinIOService) DeleteFile(ctx context.Context, poster string) error {
	objectPath := objectNameFromURL(poster, s.bucket)

	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("objectPath", objectPath).Error("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.WithField("objectPath", objectPath).Info("File deleted successfully from MinIO")
	return nil
}

// posterObjectName keeps the uploaded extension and makes the name unique.
func posterObjectName(filename, suffix string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", name, suffix, ext)
}

func publicObjectURL(publicURL, bucket, objectPath string) string {
	protocol := "http://"
	if strings.HasPrefix(publicURL, "https://") {
		protocol = "https://"
	}

	return fmt.Sprintf("%s%s/%s/%s", protocol, publicHost(publicURL), bucket, objectPath)
}

// publicHost returns the host[:port] of a public URL given with or without a
// scheme.
func publicHost(publicURL string) string {
	host := strings.TrimPrefix(publicURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// objectNameFromURL strips scheme, host, bucket and any presign query.
func objectNameFromURL(poster, bucket string) string {
	objectPath := poster
	if idx := strings.Index(objectPath, "?"); idx != -1 {
		objectPath = objectPath[:idx]
	}
	if strings.Contains(objectPath, "http") {
		parts := strings.Split(objectPath, "/")
		objectPath = parts[len(parts)-1]
	}
	return strings.TrimPrefix(objectPath, bucket+"/")
}
