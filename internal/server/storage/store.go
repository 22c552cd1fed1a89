// Package storage writes uploaded objects to a cloud content store and
// derives their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/config"
)

// ContentStore is safe for concurrent use by multiple requests.
type ContentStore interface {
	// Put streams body to key. size is -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// URL is the public, unsigned reference for key.
	URL(key string) string

	// CheckCredentials reports whether credentials can be resolved right now.
	CheckCredentials(ctx context.Context) error
}

const uploadFailedMessage = "Upload failed"

func errCredentials(detail string) error {
	return common.NewError(common.KindStorage, common.ErrCredentialsUnavailable, uploadFailedMessage).WithDetail(detail)
}

func errUploadFailed(cause error) error {
	return common.NewError(common.KindStorage, common.ErrUploadFailed, uploadFailedMessage).WithDetail(cause.Error())
}

// New builds the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (ContentStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3, "":
		return NewS3Store(ctx, S3Options{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	case config.StorageBackendGCS:
		return NewGCSStore(cfg.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// escapeKey path-escapes every segment of key, keeping the slashes.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
