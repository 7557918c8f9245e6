package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/observability"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

const bearerScheme = "Bearer"

// Verifier validates bearer tokens and attaches the caller identity to the request context.
type Verifier struct {
	tokens  *TokenManager
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewVerifier constructs middleware. logger and metrics may be nil.
func NewVerifier(tokens *TokenManager, logger *zap.Logger, metrics *observability.Metrics) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{tokens: tokens, logger: logger, metrics: metrics}
}

// Handle enforces authentication for protected routes.
func (v *Verifier) Handle(c *fiber.Ctx) error {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return v.reject(c, apperrors.NewAuthTokenMissing(), "missing authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return v.reject(c, apperrors.NewInvalidToken(), "malformed authorization header")
	}

	identity, err := v.tokens.Parse(token)
	if err != nil {
		return v.reject(c, apperrors.NewInvalidToken(), rejectReason(err))
	}

	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

// Chain returns the verifier followed by a role gate, in that order. Route groups
// are built from it so the gate never runs ahead of verification.
func (v *Verifier) Chain(roles ...domain.Role) []fiber.Handler {
	if len(roles) == 0 {
		return []fiber.Handler{v.Handle, Authenticated()}
	}
	return []fiber.Handler{v.Handle, Authorize(roles...)}
}

func (v *Verifier) reject(c *fiber.Ctx, err error, reason string) error {
	code := apperrors.ToDomainError(err).Code
	v.metrics.RecordAuthFailure(code)
	v.logger.Debug("authentication rejected",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.String("ip", c.IP()),
		zap.String("code", code),
		zap.String("reason", reason))
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token unverifiable"
	case errors.Is(err, ErrInvalidClaims), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return "invalid claims"
	default:
		return "token rejected"
	}
}
