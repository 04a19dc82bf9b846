package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// ErrGoogleDisabled is returned when Google sign-in is used without credentials.
var ErrGoogleDisabled = errors.New("google sign-in is not configured")

type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// googleIdentityService implements GoogleIdentitySvc.
type googleIdentityService struct {
	clientID     string
	oauth2Config *oauth2.Config
	validate     idTokenValidator
}

// NewGoogleIdentityService creates the Google verifier from cfg.
func NewGoogleIdentityService(cfg *config.Config) portssvc.GoogleIdentitySvc {
	return &googleIdentityService{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

func (s *googleIdentityService) Enabled() bool {
	return s.clientID != ""
}

func (s *googleIdentityService) LoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *googleIdentityService) ExchangeCode(ctx context.Context, code string) (*portssvc.ExternalIdentity, error) {
	if !s.Enabled() {
		return nil, ErrGoogleDisabled
	}
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange oauth code: %v", apperrors.ErrUnauthorized, err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google response carried no id_token", apperrors.ErrUnauthorized)
	}
	return s.VerifyIDToken(ctx, rawIDToken)
}

func (s *googleIdentityService) VerifyIDToken(ctx context.Context, rawIDToken string) (*portssvc.ExternalIdentity, error) {
	if !s.Enabled() {
		return nil, ErrGoogleDisabled
	}
	payload, err := s.validate(ctx, rawIDToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %v", apperrors.ErrUnauthorized, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (*portssvc.ExternalIdentity, error) {
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: google token has no email", apperrors.ErrUnauthorized)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: google email is not verified", apperrors.ErrUnauthorized)
	}
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)
	return &portssvc.ExternalIdentity{
		Subject:   payload.Subject,
		Email:     email,
		FirstName: givenName,
		LastName:  familyName,
	}, nil
}
