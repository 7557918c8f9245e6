package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/config"
	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/repository"
	apperrors "github.com/spec-kit/document-service/pkg/util/errorutil"
)

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	attempts    repository.LoginAttemptStore
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
	bcryptCost  int
	maxAttempts int
	window      time.Duration

	compare   func(hashed, plain string) error
	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	AttemptStore repository.LoginAttemptStore // optional; nil disables throttling
	Tokens       *auth.TokenManager
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		attempts:    deps.AttemptStore,
		tokenMgr:    deps.Tokens,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		maxAttempts: cfg.LoginMaxAttempts,
		window:      cfg.LoginWindow(),
		compare:     auth.ComparePassword,
	}
}

// Register creates a new account with the default role and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown accounts pay the same hashing cost as a wrong password.
			_ = s.compare(s.unknownUserHash(), password)
			s.recordFailure(ctx, email)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, apperrors.NewInvalidCredentials()
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, email); err != nil {
			s.logger.Warn("reset login attempts", zap.Error(err))
		}
	}
	return s.issue(user)
}

// unknownUserHash returns a hash at the configured cost that no password matches.
func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword("unknown-user-placeholder", s.bcryptCost)
		if err != nil {
			s.logger.Warn("hash placeholder password", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, caller *auth.Identity) (*domain.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, caller.SubjectID)
	if err != nil {
		return nil, mapLookupError("user", caller.SubjectID, err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// checkThrottle fails open when the attempt store is unreachable.
func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return nil
	}
	count, ttl, err := s.attempts.Count(ctx, email)
	if err != nil {
		s.logger.Warn("read login attempts", zap.Error(err))
		return nil
	}
	if count >= int64(s.maxAttempts) {
		retry := int(ttl.Seconds())
		if retry <= 0 {
			retry = int(s.window.Seconds())
		}
		return apperrors.NewTooManyAttempts(retry)
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return
	}
	if _, err := s.attempts.Increment(ctx, email, s.window); err != nil {
		s.logger.Warn("record login attempt", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
