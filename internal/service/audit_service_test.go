package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
)

func TestAuditService_RecordsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()

	actor := events.Actor{UserID: "a1", Role: domain.RoleAdmin}
	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.New(events.EventDocumentCreated, "d1", actor, nil))
	_ = dispatcher.Publish(ctx, events.New(events.EventUserRoleChanged, "u1", actor,
		events.UserRoleChangedPayload{OldRole: domain.RoleUser, NewRole: domain.RoleManager}))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	if entries[0].Message != "document_created" || entries[0].ContextMap()["subject_id"] != "d1" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("role change level = %v, want warn", entries[1].Level)
	}
	if entries[1].ContextMap()["actor_id"] != "a1" {
		t.Errorf("actor_id = %v", entries[1].ContextMap()["actor_id"])
	}
}
