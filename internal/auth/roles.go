package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/document-service/internal/domain"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// Authorize restricts a route to the given roles. The set is fixed when the
// route is registered. It expects Verifier.Handle to have run first.
func Authorize(roles ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromFiber(c)
		if !ok {
			return apperrors.NewAuthRequired()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewAccessDenied("")
		}
		return c.Next()
	}
}

// Authenticated ensures a verified caller is present, whatever its role.
func Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromFiber(c); !ok {
			return apperrors.NewAuthRequired()
		}
		return c.Next()
	}
}
