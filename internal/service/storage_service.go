package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// allowed upload types, keyed by MIME type
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

const maxUploadSize = 10 << 20 // 10 MiB

type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

// StorageService stores report attachments in an S3-compatible bucket and
// hands back publicly reachable URLs for the attachment rows.
type StorageService interface {
	Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (*UploadResult, error)
	EnsureBucket(ctx context.Context) error
}

type storageService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewStorageService(client *minio.Client, bucket, publicURL string) StorageService {
	return &storageService{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// EnsureBucket creates the attachment bucket on first run.
func (s *storageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *storageService) Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (*UploadResult, error) {
	if size > maxUploadSize {
		return nil, fmt.Errorf("file exceeds the %d MB limit", maxUploadSize>>20)
	}
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("unsupported file type %q", contentType)
	}

	now := time.Now()
	key := fmt.Sprintf("attachments/%04d/%02d/%s%s",
		now.Year(), now.Month(), uuid.NewString(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	fileType := "document"
	if strings.HasPrefix(contentType, "image/") {
		fileType = "image"
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key),
		FileName: filename,
		FileType: fileType,
	}, nil
}
