package service

import (
	"context"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// UserService manages accounts on behalf of administrators.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns a page of accounts. Route access is restricted by role.
func (s *UserService) List(ctx context.Context, caller *auth.Identity, limit, offset int) ([]domain.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	return s.users.List(ctx, limit, offset)
}

// Get returns an account to its owner or to an admin or manager.
func (s *UserService) Get(ctx context.Context, caller *auth.Identity, id string) (*domain.User, error) {
	if err := authorizeOwner(caller, id, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError("user", id, err)
	}
	return user, nil
}

// ChangeRole sets a new role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, caller *auth.Identity, id string, role domain.Role) (*domain.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	if caller.SubjectID == id {
		return nil, apperrors.NewAccessDenied("cannot change your own role")
	}
	if err := checkID("user", id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError("user", id, err)
	}
	if user.Role == role {
		return user, nil
	}
	oldRole := user.Role
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, mapLookupError("user", id, err)
	}
	user.Role = role

	s.publish(ctx, events.New(events.EventUserRoleChanged, id, actorOf(caller),
		events.UserRoleChangedPayload{OldRole: oldRole, NewRole: role}))
	return user, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if caller.SubjectID == id {
		return apperrors.NewAccessDenied("cannot delete your own account")
	}
	if err := checkID("user", id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return mapLookupError("user", id, err)
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
