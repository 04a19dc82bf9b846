package services

import (
	"context"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
)

// SessionProvider is the identity provider the ledger delegates to.
type SessionProvider interface {
	// SignUp registers a new account.
	SignUp(ctx context.Context, email, password string, profile domain.Profile) (*domain.User, error)

	// SignInWithPassword verifies credentials and issues a session.
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)

	// SignOut invalidates the session token.
	SignOut(ctx context.Context, token string) error

	// CurrentUser resolves the user of the session carried by ctx.
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// TokenRevoker reports whether an issued token id has been signed out.
type TokenRevoker interface {
	IsRevoked(tokenID string) bool
}

// ExternalIdentity is a user asserted by an external provider (Google).
type ExternalIdentity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// ExternalSignInSvc turns an external identity into a ledger session.
type ExternalSignInSvc interface {
	SignInWithIdentity(ctx context.Context, identity ExternalIdentity) (*domain.Session, error)
}

// GoogleIdentitySvc verifies Google sign-ins.
type GoogleIdentitySvc interface {
	// Enabled reports whether Google credentials are configured.
	Enabled() bool

	// LoginURL returns the consent screen URL for the authorization-code flow.
	LoginURL(state string) string

	// ExchangeCode exchanges an authorization code and verifies the returned ID token.
	ExchangeCode(ctx context.Context, code string) (*ExternalIdentity, error)

	// VerifyIDToken validates a Google ID token obtained by the client.
	VerifyIDToken(ctx context.Context, rawIDToken string) (*ExternalIdentity, error)
}

// SessionSvcFacade is the account session facade used by handlers.
type SessionSvcFacade interface {
	SessionProvider
	ExternalSignInSvc

	// RequireUser returns the current user or apperrors.ErrUnauthorized.
	RequireUser(ctx context.Context) (*domain.User, error)
}
