package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/middleware"
	"github.com/SscSPs/utang_ledger/internal/platform/config"
	"github.com/SscSPs/utang_ledger/internal/utils"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

// localSession is the built-in session provider: users live in the users
// table, sessions are stateless JWTs and sign-out is a bounded revocation list.
type localSession struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	secret   string
	issuer   string
	expiry   time.Duration
	clock    domain.Clock

	// revoked maps token id to token expiry. Eviction only forgets ids of
	// the oldest sign-outs, which have usually expired anyway.
	revoked *lru.Cache[string, time.Time]
}

// NewLocalSession creates the session provider from the JWT settings in cfg.
func NewLocalSession(userRepo portsrepo.UserRepositoryFacade, cfg *config.Config, clock domain.Clock) (*localSession, error) {
	size := cfg.RevokedTokenCacheSize
	if size <= 0 {
		size = 4096
	}
	revoked, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create revocation cache: %w", err)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &localSession{
		userRepo: userRepo,
		secret:   cfg.JWTSecret,
		issuer:   cfg.JWTIssuer,
		expiry:   cfg.JWTExpiryDuration,
		clock:    clock,
		revoked:  revoked,
	}, nil
}

var (
	_ portssvc.SessionSvcFacade = (*localSession)(nil)
	_ portssvc.TokenRevoker     = (*localSession)(nil)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *localSession) SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d to %d characters", apperrors.ErrValidation, minPasswordLength, maxPasswordLength)
	}
	if err := validateStruct(profile); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing user")
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(profile.FirstName),
		LastName:     strings.TrimSpace(profile.LastName),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	s.LogInfo(ctx, "User signed up", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *localSession) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to load user for sign in")
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	return s.issue(ctx, user)
}

func (s *localSession) SignInWithIdentity(ctx context.Context, identity portssvc.ExternalIdentity) (*domain.Session, error) {
	email := normalizeEmail(identity.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		// External accounts have no password; password sign-in stays impossible for them.
		user = &domain.User{
			UserID:    uuid.NewString(),
			Email:     email,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			CreatedAt: s.clock.Now(),
		}
		if err := s.userRepo.SaveUser(ctx, *user); err != nil {
			s.LogError(ctx, err, "Failed to save externally identified user")
			return nil, err
		}
		s.LogInfo(ctx, "User created from external identity", slog.String("user_id", user.UserID))
	default:
		s.LogError(ctx, err, "Failed to load user for external sign in")
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *localSession) issue(ctx context.Context, user *domain.User) (*domain.Session, error) {
	issued, err := utils.GenerateJWT(user.UserID, s.secret, s.expiry, s.issuer, s.clock.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	s.LogInfo(ctx, "User signed in", slog.String("user_id", user.UserID))
	return &domain.Session{User: *user, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

func (s *localSession) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseAndValidateJWT(token, s.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if claims.ID == "" {
		return fmt.Errorf("%w: token cannot be revoked", apperrors.ErrUnauthorized)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.revoked.Add(claims.ID, expiresAt)
	s.LogInfo(ctx, "User signed out", slog.String("user_id", claims.Subject))
	return nil
}

func (s *localSession) IsRevoked(tokenID string) bool {
	return s.revoked.Contains(tokenID)
}

// CurrentUser returns nil without error when ctx carries no session.
func (s *localSession) CurrentUser(ctx context.Context) (*domain.User, error) {
	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		return nil, nil
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load current user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *localSession) RequireUser(ctx context.Context) (*domain.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
