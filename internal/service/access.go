package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/events"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// authorizeOwner lets the resource owner through, plus any caller holding one of
// the privileged roles. This is the per-resource check; route role sets are
// enforced separately by auth.Authorize.
func authorizeOwner(caller *auth.Identity, ownerID string, privileged ...domain.Role) error {
	if caller == nil {
		return apperrors.NewAuthRequired()
	}
	if caller.SubjectID == ownerID || caller.HasRole(privileged...) {
		return nil
	}
	return apperrors.NewAccessDenied("not allowed to access this resource")
}

// requireCaller rejects calls that reach a service without a verified identity.
func requireCaller(caller *auth.Identity) error {
	if caller == nil {
		return apperrors.NewAuthRequired()
	}
	return nil
}

// checkID rejects ids that cannot exist so they surface as 404 rather than a database cast error.
func checkID(resource, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return nil
}

func mapLookupError(resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return fmt.Errorf("load %s: %w", resource, err)
}

func mapWriteError(resource string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(resource+" already exists", nil)
	}
	return err
}

func actorOf(caller *auth.Identity) events.Actor {
	return events.Actor{UserID: caller.SubjectID, Role: caller.Role}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
