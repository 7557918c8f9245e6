package service

import (
	"context"
	"testing"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: email, Email: email, Role: role}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_Get(t *testing.T) {
	repo := newFakeUserRepo()
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	svc := NewUserService(repo, nil)

	tests := []struct {
		name     string
		caller   *auth.Identity
		wantCode string
	}{
		{"self", &auth.Identity{SubjectID: owner.ID, Role: domain.RoleUser}, ""},
		{"other user", identity(domain.RoleUser), apperrors.CodeAccessDenied},
		{"manager", identity(domain.RoleManager), ""},
		{"admin", identity(domain.RoleAdmin), ""},
		{"no caller", nil, apperrors.CodeAuthRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(context.Background(), tt.caller, owner.ID)
			if got := codeOf(err); got != tt.wantCode {
				t.Errorf("Get() code = %q, want %q", got, tt.wantCode)
			}
		})
	}

	if _, err := svc.Get(context.Background(), identity(domain.RoleAdmin), "not-a-uuid"); codeOf(err) != apperrors.CodeNotFound {
		t.Errorf("Get(bad id) code = %q, want %q", codeOf(err), apperrors.CodeNotFound)
	}
}

func TestUserService_ChangeRole(t *testing.T) {
	repo := newFakeUserRepo()
	target := seedUser(t, repo, "target@example.com", domain.RoleUser)
	dispatcher := &recordingDispatcher{}
	svc := NewUserService(repo, dispatcher)
	admin := identity(domain.RoleAdmin)
	ctx := context.Background()

	if _, err := svc.ChangeRole(ctx, admin, target.ID, domain.Role("root")); codeOf(err) != apperrors.CodeValidationFailed {
		t.Errorf("unknown role code = %q", codeOf(err))
	}
	if _, err := svc.ChangeRole(ctx, admin, admin.SubjectID, domain.RoleUser); codeOf(err) != apperrors.CodeAccessDenied {
		t.Errorf("self change code = %q", codeOf(err))
	}

	updated, err := svc.ChangeRole(ctx, admin, target.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	if updated.Role != domain.RoleManager {
		t.Errorf("Role = %v, want manager", updated.Role)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Type != events.EventUserRoleChanged {
		t.Fatalf("events = %v", dispatcher.types())
	}
	payload := dispatcher.events[0].Payload.(events.UserRoleChangedPayload)
	if payload.OldRole != domain.RoleUser || payload.NewRole != domain.RoleManager {
		t.Errorf("payload = %+v", payload)
	}

	if _, err := svc.ChangeRole(ctx, admin, target.ID, domain.RoleManager); err != nil {
		t.Fatalf("no-op ChangeRole() error = %v", err)
	}
	if len(dispatcher.events) != 1 {
		t.Errorf("no-op change published an event")
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newFakeUserRepo()
	target := seedUser(t, repo, "gone@example.com", domain.RoleUser)
	svc := NewUserService(repo, nil)
	admin := identity(domain.RoleAdmin)
	ctx := context.Background()

	if err := svc.Delete(ctx, admin, admin.SubjectID); codeOf(err) != apperrors.CodeAccessDenied {
		t.Errorf("self delete code = %q", codeOf(err))
	}
	if err := svc.Delete(ctx, admin, target.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, admin, target.ID); codeOf(err) != apperrors.CodeNotFound {
		t.Errorf("second Delete() code = %q, want %q", codeOf(err), apperrors.CodeNotFound)
	}
}
