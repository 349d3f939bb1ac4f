package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sidata/backend/internal/config"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MinIOClient archives uploaded spreadsheets in a single bucket.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig, logger *zap.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create bucket")
		}
		logger.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinIOClient{client: client, bucket: cfg.Bucket}, nil
}

// Archive stores an upload payload and returns its object key.
func (m *MinIOClient) Archive(ctx context.Context, entity, filename string, payload []byte) (string, error) {
	key := ArchiveKey(entity, filename, time.Now(), uuid.New())

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentTypeFor(filename)})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}
	return key, nil
}

// ArchiveKey builds imports/<entity>/<yyyy>/<mm>/<id>-<filename>.
func ArchiveKey(entity, filename string, at time.Time, id uuid.UUID) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "upload.xlsx"
	}
	return fmt.Sprintf("imports/%s/%04d/%02d/%s-%s", entity, at.Year(), int(at.Month()), id, name)
}

func contentTypeFor(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".xls") {
		return "application/vnd.ms-excel"
	}
	return xlsxContentType
}
