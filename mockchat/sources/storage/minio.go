package storage

import (
	"bytes"
	"context"
	"io"
	"path"

	"mockchat/mockchat/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const uploadsPrefix = "uploads"

// MinIOAttachments stores uploads as objects in a MinIO (or S3) bucket.
type MinIOAttachments struct {
	client *minio.Client
	bucket string
}

func NewMinIOAttachments(ctx context.Context, cfg config.Config) (*MinIOAttachments, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "make bucket")
		}
	}
	return &MinIOAttachments{client: client, bucket: cfg.MinIOBucket}, nil
}

func objectKey(id string) string {
	return path.Join(uploadsPrefix, id)
}

func (m *MinIOAttachments) Put(ctx context.Context, id, filename string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectKey(id), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: map[string]string{"filename": filename},
	})
	return errors.Wrap(err, "put attachment")
}

func (m *MinIOAttachments) Get(ctx context.Context, id string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "get attachment")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, "read attachment")
	}
	return data, nil
}

func (m *MinIOAttachments) Delete(ctx context.Context, id string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectKey(id), minio.RemoveObjectOptions{})
	return errors.Wrap(err, "delete attachment")
}
