package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/document-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDocumentCreated       EventType = "document_created"
	EventDocumentDeleted       EventType = "document_deleted"
	EventDocumentFieldsUpdated EventType = "document_fields_updated"
	EventUserRoleChanged       EventType = "user_role_changed"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// DocumentCreatedPayload payload.
type DocumentCreatedPayload struct {
	OwnerID    string  `json:"owner_id"`
	TemplateID *string `json:"template_id,omitempty"`
	FileName   string  `json:"file_name"`
	SizeBytes  int64   `json:"size_bytes"`
}

// DocumentDeletedPayload payload.
type DocumentDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}

// DocumentFieldsUpdatedPayload payload.
type DocumentFieldsUpdatedPayload struct {
	TemplateID string   `json:"template_id"`
	Fields     []string `json:"fields"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
