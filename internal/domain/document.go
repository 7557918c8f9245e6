package domain

import "time"

// DocumentStatus tracks where a document is in the extraction workflow.
type DocumentStatus string

const (
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusProcessed DocumentStatus = "processed"
)

// MimeTypePDF is the only accepted document content type.
const MimeTypePDF = "application/pdf"

// Document holds metadata for an uploaded PDF. The bytes themselves live elsewhere.
type Document struct {
	ID         string
	OwnerID    string
	TemplateID *string
	Title      string
	FileName   string
	MimeType   string
	SizeBytes  int64
	Status     DocumentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FieldValue is an extracted value for one template field on a document.
type FieldValue struct {
	DocumentID string
	FieldName  string
	Value      string
	UpdatedBy  string
	UpdatedAt  time.Time
}
