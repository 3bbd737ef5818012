// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package media provides the object store for book images.

It wraps a MinIO/S3-compatible bucket behind a narrow interface so the
catalog services never touch storage SDK types directly. Uploads happen
before the book record is written (a failed upload aborts book creation);
deletes are best-effort cleanup after the record is removed.
*/
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	// Register decoders so DecodeConfig can read the common upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rafidhoque/boighor/internal/platform/constants"
)

// Image describes a stored book image as exposed through the API.
type Image struct {
	// PublicID is the object key inside the bucket; deletion uses it.
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
}

// Store is the contract the catalog layer depends on.
type Store interface {
	// Upload persists one image payload and returns its descriptor.
	Upload(ctx context.Context, data []byte, contentType string) (Image, error)

	// Delete removes a stored object by its public ID.
	Delete(ctx context.Context, publicID string) error
}

// # MinIO Implementation

// Config holds the connection settings for the bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is prepended to object keys to form public image URLs.
	PublicBaseURL string
}

// MinioStore implements [Store] for MinIO/S3-compatible storage.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: init client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("media: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("media: create bucket: %w", err)
		}
	}

	logger.Info("media store connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload stores the payload under a fresh time-sortable key and returns its
// descriptor. Image dimensions and format are probed from the payload header;
// an undecodable payload still uploads, just without dimensions.
func (store *MinioStore) Upload(ctx context.Context, data []byte, contentType string) (Image, error) {
	key := objectKey()

	_, err := store.client.PutObject(ctx, store.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return Image{}, fmt.Errorf("media: put object: %w", err)
	}

	descriptor := Image{
		PublicID: key,
		URL:      store.baseURL + "/" + key,
	}

	if config, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		descriptor.Width = config.Width
		descriptor.Height = config.Height
		descriptor.Format = format
	}

	return descriptor, nil
}

// Delete removes a stored object by its public ID.
func (store *MinioStore) Delete(ctx context.Context, publicID string) error {
	if err := store.client.RemoveObject(ctx, store.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("media: delete object: %w", err)
	}
	return nil
}

// objectKey mints a bucket key under the books folder.
// UUIDv7 keeps keys time-sortable for easier bucket housekeeping.
func objectKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return constants.MediaFolderBooks + "/" + id.String()
}
