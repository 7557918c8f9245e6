package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// TemplateInput describes template create/update payloads.
type TemplateInput struct {
	Name        string
	Description string
	Fields      []domain.FieldDefinition
}

// TemplateService manages field templates.
type TemplateService struct {
	templates repository.TemplateRepository
}

// NewTemplateService constructs the service.
func NewTemplateService(templates repository.TemplateRepository) *TemplateService {
	return &TemplateService{templates: templates}
}

// List returns all templates.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	return s.templates.List(ctx)
}

// Get returns one template.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	if err := checkID("template", id); err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError("template", id, err)
	}
	return tpl, nil
}

// Create stores a new template owned by the caller.
func (s *TemplateService) Create(ctx context.Context, caller *auth.Identity, input TemplateInput) (*domain.Template, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return nil, err
	}
	tpl := &domain.Template{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Fields:      fields,
		CreatedBy:   caller.SubjectID,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, mapWriteError("template", err)
	}
	return tpl, nil
}

// Update replaces name, description and field definitions.
func (s *TemplateService) Update(ctx context.Context, id string, input TemplateInput) (*domain.Template, error) {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := normalizeFields(input.Fields)
	if err != nil {
		return nil, err
	}
	tpl.Name = strings.TrimSpace(input.Name)
	tpl.Description = strings.TrimSpace(input.Description)
	tpl.Fields = fields
	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, mapWriteError("template", err)
	}
	return tpl, nil
}

// Delete removes a template. Documents using it keep their metadata.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := checkID("template", id); err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return mapLookupError("template", id, err)
	}
	return nil
}

// normalizeFields trims names, defaults labels and rejects duplicates and unknown types.
func normalizeFields(in []domain.FieldDefinition) ([]domain.FieldDefinition, error) {
	out := make([]domain.FieldDefinition, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	details := map[string]any{}
	for i, f := range in {
		f.Name = strings.TrimSpace(f.Name)
		f.Label = strings.TrimSpace(f.Label)
		key := "fields[" + strconv.Itoa(i) + "]"
		switch {
		case f.Name == "":
			details[key] = "name is required"
			continue
		case !f.Type.Valid():
			details[key] = "unknown type " + string(f.Type)
			continue
		}
		if _, dup := seen[f.Name]; dup {
			details[key] = "duplicate field name " + f.Name
			continue
		}
		seen[f.Name] = struct{}{}
		if f.Label == "" {
			f.Label = f.Name
		}
		out = append(out, f)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid field definitions", details)
	}
	return out, nil
}
