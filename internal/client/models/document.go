// Package models defines client-side data models used by the nkitsi CLI.
package models

import (
	"fmt"
	"time"
)

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	DocumentTypeID       DocumentType = "id"
	DocumentTypePassport DocumentType = "passport"
	DocumentTypeLicense  DocumentType = "license"
	DocumentTypePermit   DocumentType = "permit"
)

var documentTypeLabels = map[DocumentType]string{
	DocumentTypeID:       "National ID",
	DocumentTypePassport: "Passport",
	DocumentTypeLicense:  "Driver's License",
	DocumentTypePermit:   "Work/Residence Permit",
}

// DocumentTypes lists the known types in picker order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeID, DocumentTypePassport, DocumentTypeLicense, DocumentTypePermit}
}

func (t DocumentType) Valid() bool {
	_, ok := documentTypeLabels[t]
	return ok
}

// Label is the human name shown in the CLI.
func (t DocumentType) Label() string {
	if l, ok := documentTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// UploadResult is the gateway reference to a stored object.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// DocumentRecord is one element of the locally persisted document list.
// ID is epoch milliseconds, unique within the local store.
type DocumentRecord struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	UploadedAt time.Time    `json:"uploadedAt"`
	S3         UploadResult `json:"s3"`
}

func (d DocumentRecord) String() string {
	return fmt.Sprintf("%d  %-22s %-28s %s", d.ID, d.Type.Label(), d.Name, d.UploadedAt.Format(time.RFC3339))
}

// UploadRequest describes one local file picked for upload. Path is empty
// when the document has no attachment.
type UploadRequest struct {
	Path     string
	FileName string
	MimeType string
}
