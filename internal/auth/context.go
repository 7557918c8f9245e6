package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a new context with the given identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// IdentityFromFiber retrieves the identity attached by the Verifier to the request's user context.
func IdentityFromFiber(c *fiber.Ctx) (*Identity, bool) {
	id := IdentityFromContext(c.UserContext())
	return id, id != nil
}
