package dto

import (
	"time"

	"github.com/spec-kit/document-service/internal/domain"
)

// CreateDocumentRequest payload for POST /documents.
type CreateDocumentRequest struct {
	TemplateID *string `json:"template_id" validate:"omitempty,uuid"`
	Title      string  `json:"title" validate:"max=200"`
	FileName   string  `json:"file_name" validate:"required,max=255"`
	MimeType   string  `json:"mime_type" validate:"required"`
	SizeBytes  int64   `json:"size_bytes" validate:"gte=0"`
}

// UpdateDocumentRequest payload for PATCH /documents/:id.
type UpdateDocumentRequest struct {
	TemplateID *string `json:"template_id" validate:"omitempty,uuid"`
	Title      *string `json:"title" validate:"omitempty,max=200"`
}

// PutFieldsRequest payload for PUT /documents/:id/fields.
type PutFieldsRequest struct {
	Values map[string]string `json:"values" validate:"required"`
}

// DocumentResponse is the public view of a document.
type DocumentResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	TemplateID *string   `json:"template_id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewDocumentResponse maps a domain document.
func NewDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		TemplateID: d.TemplateID,
		Title:      d.Title,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		SizeBytes:  d.SizeBytes,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// FieldValueResponse is one extracted value.
type FieldValueResponse struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFieldValuesResponse maps stored values.
func NewFieldValuesResponse(values []domain.FieldValue) []FieldValueResponse {
	out := make([]FieldValueResponse, 0, len(values))
	for _, v := range values {
		out = append(out, FieldValueResponse{
			Name:      v.FieldName,
			Value:     v.Value,
			UpdatedBy: v.UpdatedBy,
			UpdatedAt: v.UpdatedAt,
		})
	}
	return out
}
