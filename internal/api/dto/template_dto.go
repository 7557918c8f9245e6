package dto

import (
	"time"

	"github.com/spec-kit/document-service/internal/domain"
)

// FieldDefinitionRequest describes one template field.
type FieldDefinitionRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Label    string `json:"label" validate:"max=120"`
	Type     string `json:"type" validate:"required,oneof=text number date boolean"`
	Required bool   `json:"required"`
}

// TemplateRequest payload for template create and update.
type TemplateRequest struct {
	Name        string                   `json:"name" validate:"required,max=120"`
	Description string                   `json:"description" validate:"max=1000"`
	Fields      []FieldDefinitionRequest `json:"fields" validate:"dive"`
}

// Definitions converts the request fields to domain definitions.
func (r TemplateRequest) Definitions() []domain.FieldDefinition {
	out := make([]domain.FieldDefinition, 0, len(r.Fields))
	for _, f := range r.Fields {
		out = append(out, domain.FieldDefinition{
			Name:     f.Name,
			Label:    f.Label,
			Type:     domain.FieldType(f.Type),
			Required: f.Required,
		})
	}
	return out
}

// TemplateResponse is the public view of a template.
type TemplateResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Fields      []domain.FieldDefinition `json:"fields"`
	CreatedBy   string                   `json:"created_by,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NewTemplateResponse maps a domain template.
func NewTemplateResponse(t *domain.Template) TemplateResponse {
	fields := t.Fields
	if fields == nil {
		fields = []domain.FieldDefinition{}
	}
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Fields:      fields,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
