package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/events"
)

// AuditService writes a structured audit trail for domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventDocumentCreated, a.record)
	a.dispatcher.Subscribe(events.EventDocumentDeleted, a.record)
	a.dispatcher.Subscribe(events.EventDocumentFieldsUpdated, a.record)
	a.dispatcher.Subscribe(events.EventUserRoleChanged, a.handleRoleChanged)
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), a.fields(event)...)
	return nil
}

// handleRoleChanged logs privilege changes at warn level.
func (a *AuditService) handleRoleChanged(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type), a.fields(event)...)
	return nil
}

func (a *AuditService) fields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
}
