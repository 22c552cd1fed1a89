package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/models"
	"github.com/dmitrijs2005/nkitsi/internal/server/storage"
)

const defaultContentType = "application/octet-stream"

var errNoFileProvided = common.NewError(common.KindValidation, common.ErrNoFileProvided, "No file provided")

// errUploadFailed classifies store errors that carry no kind of their own,
// such as the upload deadline expiring inside the store client.
func errUploadFailed(cause error) error {
	return common.NewError(common.KindStorage, common.ErrUploadFailed, "Upload failed").WithDetail(cause.Error())
}

// UploadInput is one file taken from a multipart request. Size is -1 when
// unknown.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService forwards a single file to the content store under a
// timestamped key.
//
// Keys are uploads/{epochMillis}_{name}. Two uploads of the same name in the
// same millisecond collide; the later write wins on S3.
type UploadService struct {
	store         storage.ContentStore
	logger        logging.Logger
	uploadTimeout time.Duration
	now           func() time.Time
}

func NewUploadService(store storage.ContentStore, uploadTimeout time.Duration, logger logging.Logger) *UploadService {
	return &UploadService{store: store, logger: logger, uploadTimeout: uploadTimeout, now: time.Now}
}

func (s *UploadService) Upload(ctx context.Context, in *UploadInput) (*models.UploadResult, error) {
	if in == nil || in.Body == nil {
		return nil, errNoFileProvided
	}

	key := s.objectKey(in.FileName)
	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	if err := s.store.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		s.logger.Error(ctx, "upload failed", "key", key, "error", err)
		var ce *common.Error
		if !errors.As(err, &ce) {
			err = errUploadFailed(err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "upload stored", "key", key, "bytes", in.Size, "content_type", contentType)
	return &models.UploadResult{Key: key, URL: s.store.URL(key)}, nil
}

// CheckCredentials is run once at startup; the result is advisory.
func (s *UploadService) CheckCredentials(ctx context.Context) error {
	return s.store.CheckCredentials(ctx)
}

func (s *UploadService) objectKey(fileName string) string {
	return fmt.Sprintf("uploads/%d_%s", s.now().UnixMilli(), baseName(fileName))
}

// baseName drops any directory part a client may send in the file name.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	switch name {
	case ".", "/", "..", "":
		return "upload"
	}
	return name
}
