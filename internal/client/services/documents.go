package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/client/client"
	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/filex"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/netx"
)

var (
	errMissingDocumentType = common.NewError(common.KindValidation, common.ErrMissingDocumentType, "Please choose a document type")
	errUnknownDocumentType = common.NewError(common.KindValidation, common.ErrValidation, "Unknown document type")
)

// DocumentStore is the local document list.
type DocumentStore interface {
	Load(ctx context.Context) []models.DocumentRecord
	Append(ctx context.Context, rec *models.DocumentRecord) error
	Remove(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

// SubmitRequest is one "add document" action. File is nil for a document
// without attachment.
type SubmitRequest struct {
	Type   models.DocumentType
	Status string
	File   *models.UploadRequest
}

// SubmitResult reports what Submit did. Record is nil when nothing was
// uploaded.
type SubmitResult struct {
	Uploaded bool
	Record   *models.DocumentRecord
	Message  string
}

type DocumentService struct {
	client client.Client
	store  DocumentStore
	logger logging.Logger
	now    func() time.Time
}

func NewDocumentService(c client.Client, store DocumentStore, logger logging.Logger) *DocumentService {
	return &DocumentService{client: c, store: store, logger: logger.With("module", "documents_service"), now: time.Now}
}

// Submit validates the document type, uploads the attached file if any and
// records it locally before returning.
//
// The local record is written at most once: when Append fails after the
// gateway accepted the file, the result is returned together with a
// LocalPersistence error naming the orphaned key.
func (s *DocumentService) Submit(ctx context.Context, req SubmitRequest, progress netx.ProgressFunc) (*SubmitResult, error) {
	if req.Type == "" {
		return nil, errMissingDocumentType
	}
	if !req.Type.Valid() {
		return nil, errUnknownDocumentType.WithDetail(string(req.Type))
	}

	if req.File == nil || req.File.Path == "" {
		return &SubmitResult{Message: fmt.Sprintf("Type: %s\nStatus: %s", req.Type.Label(), req.Status)}, nil
	}

	up := *req.File
	if up.MimeType == "" {
		up.MimeType = filex.ContentType(up.Path)
	}
	if up.FileName == "" {
		up.FileName = filepath.Base(up.Path)
	}
	up.FileName = filex.UploadName(up.FileName, up.MimeType)

	res, err := s.client.Upload(ctx, up, progress)
	if err != nil {
		s.logger.Warn(ctx, "upload failed", "file", up.FileName, "error", err)
		return nil, err
	}

	now := s.now()
	rec := &models.DocumentRecord{
		ID:         now.UnixMilli(),
		Name:       up.FileName,
		Type:       req.Type,
		UploadedAt: now.UTC(),
		S3:         *res,
	}

	result := &SubmitResult{Uploaded: true, Record: rec, Message: "Document uploaded successfully."}
	if err := s.store.Append(ctx, rec); err != nil {
		s.logger.Error(ctx, "uploaded document not saved locally", "key", res.Key, "error", err)
		return result, common.NewError(common.KindLocalPersistence, common.ErrLocalPersistence, "Uploaded, but could not save the document locally").
			WithDetail(fmt.Sprintf("object %s: %s", res.Key, common.MessageOf(err)))
	}

	return result, nil
}

func (s *DocumentService) List(ctx context.Context) []models.DocumentRecord {
	return s.store.Load(ctx)
}

func (s *DocumentService) Remove(ctx context.Context, id int64) error {
	return s.store.Remove(ctx, id)
}

func (s *DocumentService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
