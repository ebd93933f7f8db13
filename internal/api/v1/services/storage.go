package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"rvc-service/internal/config"
)

// SampleArchive keeps a copy of every uploaded training sample.
type SampleArchive interface {
	Store(ctx context.Context, voiceID, path, filename string) (string, error)
	Purge(ctx context.Context, voiceID string) (int, error)
}

// MinioSampleArchive implements SampleArchive using MinIO
type MinioSampleArchive struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioSampleArchive connects to the configured endpoint and creates the bucket if needed.
func NewMinioSampleArchive(ctx context.Context, cfg config.ArchiveConfig, logger *zap.Logger) (*MinioSampleArchive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created sample bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioSampleArchive{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Store uploads the sample at path and returns its object key.
func (a *MinioSampleArchive) Store(ctx context.Context, voiceID, path, filename string) (string, error) {
	now := time.Now()
	key := sampleKey(voiceID, filename, now)

	_, err := a.client.FPutObject(ctx, a.bucket, key, path, minio.PutObjectOptions{
		ContentType: contentTypeFor(filename),
		UserMetadata: map[string]string{
			"original-name": filename,
			"voice-id":      voiceID,
			"uploaded-at":   now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload sample to MinIO: %w", err)
	}
	return key, nil
}

// Purge removes every archived sample of voiceID and returns how many were deleted.
func (a *MinioSampleArchive) Purge(ctx context.Context, voiceID string) (int, error) {
	removed := 0
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    samplePrefix(voiceID),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return removed, fmt.Errorf("failed to list samples: %w", obj.Err)
		}
		if err := a.client.RemoveObject(ctx, a.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to delete sample %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}

func samplePrefix(voiceID string) string {
	return "samples/" + voiceID + "/"
}

func sampleKey(voiceID, filename string, at time.Time) string {
	fileID := uuid.New().String()[:8]
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s%d-%s%s", samplePrefix(voiceID), at.Unix(), fileID, ext)
}

var audioContentTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

func contentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
