package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// CredentialsDetailGCS is returned to clients when application default
// credentials cannot be found.
const CredentialsDetailGCS = "Could not load credentials from any providers. Set GOOGLE_APPLICATION_CREDENTIALS or configure application default credentials."

var (
	newGCSClient = func(ctx context.Context) (*storage.Client, error) {
		return storage.NewClient(ctx)
	}

	newObjectWriter = func(ctx context.Context, c *storage.Client, bucket, key, contentType string) io.WriteCloser {
		w := c.Bucket(bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
)

// GCSStore writes objects with a create-only precondition, so a replayed key
// never overwrites an earlier upload. The client is created on first use.
type GCSStore struct {
	bucket string

	mu     sync.Mutex
	client *storage.Client
	ready  bool
}

func NewGCSStore(bucket string) *GCSStore {
	return &GCSStore{bucket: bucket}
}

func (s *GCSStore) getClient(ctx context.Context) (*storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return s.client, nil
	}
	// The client outlives the first caller, so it must not inherit its cancellation.
	c, err := newGCSClient(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	s.client, s.ready = c, true
	return c, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	c, err := s.getClient(ctx)
	if err != nil {
		if isGCSCredentialsError(err) {
			return errCredentials(CredentialsDetailGCS)
		}
		return errUploadFailed(err)
	}

	w := newObjectWriter(ctx, c, s.bucket, key, contentType)
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return gcsWriteError(err)
	}
	if err := w.Close(); err != nil {
		return gcsWriteError(err)
	}
	return nil
}

func (s *GCSStore) URL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, escapeKey(key))
}

func (s *GCSStore) CheckCredentials(ctx context.Context) error {
	if _, err := s.getClient(ctx); err != nil {
		return errCredentials(CredentialsDetailGCS)
	}
	return nil
}

func (s *GCSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func gcsWriteError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusPreconditionFailed:
			return errUploadFailed(fmt.Errorf("object already exists: %w", err))
		case http.StatusUnauthorized:
			return errCredentials(CredentialsDetailGCS)
		}
	}
	return errUploadFailed(err)
}

func isGCSCredentialsError(err error) bool {
	return strings.Contains(err.Error(), "could not find default credentials")
}
