package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// CreateDocumentInput carries metadata for a newly uploaded document.
type CreateDocumentInput struct {
	TemplateID *string
	Title      string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// UpdateDocumentInput carries optional metadata changes.
type UpdateDocumentInput struct {
	TemplateID *string
	Title      *string
}

// DocumentListInput narrows listings.
type DocumentListInput struct {
	OwnerID    string
	TemplateID string
	Status     string
	Limit      int
	Offset     int
}

// DocumentService manages document metadata and extracted fields.
type DocumentService struct {
	documents  repository.DocumentRepository
	templates  repository.TemplateRepository
	fields     repository.FieldValueRepository
	dispatcher events.Dispatcher
}

// DocumentDependencies groups the repositories DocumentService needs.
type DocumentDependencies struct {
	Documents  repository.DocumentRepository
	Templates  repository.TemplateRepository
	Fields     repository.FieldValueRepository
	Dispatcher events.Dispatcher
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	return &DocumentService{
		documents:  deps.Documents,
		templates:  deps.Templates,
		fields:     deps.Fields,
		dispatcher: deps.Dispatcher,
	}
}

// Create records a new PDF owned by the caller.
func (s *DocumentService) Create(ctx context.Context, caller *auth.Identity, input CreateDocumentInput) (*domain.Document, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(input.MimeType), domain.MimeTypePDF) {
		return nil, apperrors.NewValidationError("only PDF documents are accepted", map[string]any{"mime_type": input.MimeType})
	}
	if input.TemplateID != nil {
		if _, err := s.loadTemplate(ctx, *input.TemplateID); err != nil {
			return nil, err
		}
	}

	doc := &domain.Document{
		OwnerID:    caller.SubjectID,
		TemplateID: input.TemplateID,
		Title:      strings.TrimSpace(input.Title),
		FileName:   strings.TrimSpace(input.FileName),
		MimeType:   domain.MimeTypePDF,
		SizeBytes:  input.SizeBytes,
		Status:     domain.DocumentStatusUploaded,
	}
	if doc.Title == "" {
		doc.Title = doc.FileName
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, mapWriteError("document", err)
	}

	s.publish(ctx, events.New(events.EventDocumentCreated, doc.ID, actorOf(caller), events.DocumentCreatedPayload{
		OwnerID:    doc.OwnerID,
		TemplateID: doc.TemplateID,
		FileName:   doc.FileName,
		SizeBytes:  doc.SizeBytes,
	}))
	return doc, nil
}

// List returns the caller's documents. Admins and managers may list all
// documents or filter by owner.
func (s *DocumentService) List(ctx context.Context, caller *auth.Identity, input DocumentListInput) ([]domain.Document, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	filter := repository.DocumentFilter{}
	filter.Limit, filter.Offset = normalizePage(input.Limit, input.Offset)

	for param, value := range map[string]string{"owner_id": input.OwnerID, "template_id": input.TemplateID} {
		if value == "" {
			continue
		}
		if _, err := uuid.Parse(value); err != nil {
			return nil, apperrors.NewValidationError("invalid filter", map[string]any{param: "must be a valid id"})
		}
	}

	switch {
	case !caller.HasRole(domain.RoleAdmin, domain.RoleManager):
		filter.OwnerID = &caller.SubjectID
	case input.OwnerID != "":
		owner := input.OwnerID
		filter.OwnerID = &owner
	}
	if input.TemplateID != "" {
		tpl := input.TemplateID
		filter.TemplateID = &tpl
	}
	if input.Status != "" {
		status := domain.DocumentStatus(input.Status)
		if status != domain.DocumentStatusUploaded && status != domain.DocumentStatusProcessed {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.Status})
		}
		filter.Status = &status
	}
	return s.documents.List(ctx, filter)
}

// Get returns a document to its owner or to an admin or manager.
func (s *DocumentService) Get(ctx context.Context, caller *auth.Identity, id string) (*domain.Document, error) {
	return s.load(ctx, caller, id, domain.RoleAdmin, domain.RoleManager)
}

// Update changes title or template. Only the owner or an admin may write.
func (s *DocumentService) Update(ctx context.Context, caller *auth.Identity, id string, input UpdateDocumentInput) (*domain.Document, error) {
	doc, err := s.load(ctx, caller, id, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		doc.Title = title
	}
	if input.TemplateID != nil && !sameTemplate(doc.TemplateID, *input.TemplateID) {
		if _, err := s.loadTemplate(ctx, *input.TemplateID); err != nil {
			return nil, err
		}
		tpl := *input.TemplateID
		doc.TemplateID = &tpl
		doc.Status = domain.DocumentStatusUploaded
	}
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, mapLookupError("document", id, err)
	}
	return doc, nil
}

// Delete removes a document and its field values. Only the owner or an admin may delete.
func (s *DocumentService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	doc, err := s.load(ctx, caller, id, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return mapLookupError("document", id, err)
	}
	s.publish(ctx, events.New(events.EventDocumentDeleted, id, actorOf(caller),
		events.DocumentDeletedPayload{OwnerID: doc.OwnerID}))
	return nil
}

// GetFields returns the extracted values of a document.
func (s *DocumentService) GetFields(ctx context.Context, caller *auth.Identity, id string) ([]domain.FieldValue, error) {
	if _, err := s.load(ctx, caller, id, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}
	return s.fields.ListByDocument(ctx, id)
}

// PutFields validates values against the document's template, replaces the
// stored set and marks the document processed.
func (s *DocumentService) PutFields(ctx context.Context, caller *auth.Identity, id string, values map[string]string) ([]domain.FieldValue, error) {
	doc, err := s.load(ctx, caller, id, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return nil, err
	}
	if doc.TemplateID == nil {
		return nil, apperrors.NewValidationError("document has no template", nil)
	}
	tpl, err := s.loadTemplate(ctx, *doc.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := validateFieldValues(tpl, values); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now().UTC()
	stored := make([]domain.FieldValue, 0, len(names))
	for _, name := range names {
		stored = append(stored, domain.FieldValue{
			DocumentID: id,
			FieldName:  name,
			Value:      strings.TrimSpace(values[name]),
			UpdatedBy:  caller.SubjectID,
			UpdatedAt:  now,
		})
	}
	if err := s.fields.Replace(ctx, id, stored); err != nil {
		return nil, mapLookupError("document", id, err)
	}

	s.publish(ctx, events.New(events.EventDocumentFieldsUpdated, id, actorOf(caller),
		events.DocumentFieldsUpdatedPayload{TemplateID: tpl.ID, Fields: names}))
	return stored, nil
}

func (s *DocumentService) load(ctx context.Context, caller *auth.Identity, id string, privileged ...domain.Role) (*domain.Document, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := checkID("document", id); err != nil {
		return nil, err
	}
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError("document", id, err)
	}
	if err := authorizeOwner(caller, doc.OwnerID, privileged...); err != nil {
		return nil, err
	}
	return doc, nil
}

// loadTemplate resolves a template reference. A missing template is a client error.
func (s *DocumentService) loadTemplate(ctx context.Context, id string) (*domain.Template, error) {
	missing := apperrors.NewValidationError("template does not exist", map[string]any{"template_id": id})
	if err := checkID("template", id); err != nil {
		return nil, missing
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, missing
		}
		return nil, fmt.Errorf("load template: %w", err)
	}
	return tpl, nil
}

func (s *DocumentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func sameTemplate(current *string, next string) bool {
	return current != nil && *current == next
}

// validateFieldValues checks names, required fields and value types.
func validateFieldValues(tpl *domain.Template, values map[string]string) error {
	details := map[string]any{}
	for name, raw := range values {
		def, ok := tpl.Field(name)
		if !ok {
			details[name] = "is not defined by the template"
			continue
		}
		if msg := checkFieldValue(def, strings.TrimSpace(raw)); msg != "" {
			details[name] = msg
		}
	}
	for _, def := range tpl.Fields {
		if !def.Required {
			continue
		}
		if v, ok := values[def.Name]; !ok || strings.TrimSpace(v) == "" {
			details[def.Name] = "is required"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid field values", details)
	}
	return nil
}

func checkFieldValue(def domain.FieldDefinition, value string) string {
	if value == "" {
		return ""
	}
	switch def.Type {
	case domain.FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "must be a number"
		}
	case domain.FieldTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return "must be true or false"
		}
	case domain.FieldTypeDate:
		if _, err := time.Parse(time.DateOnly, value); err == nil {
			return ""
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return "must be a date (YYYY-MM-DD or RFC 3339)"
		}
	}
	return ""
}
