package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Messages returned by the auth endpoints
const (
	MsgSignUpSuccess       = "Registration successful. Please check your email for verification."
	MsgSignOutSuccess      = "Successfully signed out"
	MsgResetPasswordSent   = "Password reset instructions sent to your email"
	MsgPasswordUpdated     = "Password updated successfully"
	MsgInvalidCredentials  = "Invalid credentials"
	msgProviderUnavailable = "authentication request failed"
)

// SignUpResult is returned after a successful registration
type SignUpResult struct {
	Message string           `json:"message"`
	User    *domain.AuthUser `json:"user"`
}

// SessionResult is returned by sign-in and the OAuth callback
type SessionResult struct {
	User    *domain.AuthUser `json:"user"`
	Session *domain.Session  `json:"session"`
}

// SocialAuthResult carries the provider URL and the PKCE verifier the client
// must send back with the callback code
type SocialAuthResult struct {
	URL          string `json:"url"`
	CodeVerifier string `json:"codeVerifier"`
}

// AuthService wraps the identity provider's account operations
type AuthService struct {
	provider            domain.AuthProvider
	oauthRedirectURL    string
	passwordRedirectURL string
}

// NewAuthService creates a new AuthService
func NewAuthService(provider domain.AuthProvider, oauthRedirectURL, passwordRedirectURL string) *AuthService {
	return &AuthService{
		provider:            provider,
		oauthRedirectURL:    oauthRedirectURL,
		passwordRedirectURL: passwordRedirectURL,
	}
}

// SignUp registers a new account. The provider sends the verification email.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*SignUpResult, error) {
	var metadata map[string]any
	if name != "" {
		metadata = map[string]any{"name": name}
	}

	user, _, err := s.provider.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, badRequestFromProvider("sign up", err)
	}

	log.Info().Str("email", email).Msg("User registered")
	return &SignUpResult{Message: MsgSignUpSuccess, User: user}, nil
}

// SignIn exchanges credentials for a session. Every failure is reported as
// invalid credentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SessionResult, error) {
	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("Sign in rejected")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, MsgInvalidCredentials)
	}
	return &SessionResult{User: session.User, Session: session}, nil
}

// SignOut revokes the sessions of the token's owner
func (s *AuthService) SignOut(ctx context.Context, accessToken string) (string, error) {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return "", badRequestFromProvider("sign out", err)
	}
	return MsgSignOutSuccess, nil
}

// ResetPassword asks the provider to email reset instructions
func (s *AuthService) ResetPassword(ctx context.Context, email string) (string, error) {
	if err := s.provider.ResetPasswordForEmail(ctx, email, s.passwordRedirectURL); err != nil {
		return "", badRequestFromProvider("reset password", err)
	}
	return MsgResetPasswordSent, nil
}

// UpdatePassword sets a new password for the token's owner
func (s *AuthService) UpdatePassword(ctx context.Context, accessToken, password string) (string, error) {
	if _, err := s.provider.UpdatePassword(ctx, accessToken, password); err != nil {
		return "", badRequestFromProvider("update password", err)
	}
	return MsgPasswordUpdated, nil
}

// SocialAuthURL starts a PKCE flow with the provider and returns where to
// send the browser
func (s *AuthService) SocialAuthURL(ctx context.Context, provider string) (*SocialAuthResult, error) {
	if !domain.SupportedOAuthProviders[provider] {
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrBadRequest, provider)
	}

	redirect, err := s.provider.Authorize(ctx, provider, s.oauthRedirectURL)
	if err != nil {
		return nil, badRequestFromProvider("authorize", err)
	}

	return &SocialAuthResult{
		URL:          redirect.URL,
		CodeVerifier: redirect.CodeVerifier,
	}, nil
}

// SocialAuthCallback exchanges an OAuth code for a session
func (s *AuthService) SocialAuthCallback(ctx context.Context, code, codeVerifier string) (*SessionResult, error) {
	if code == "" || codeVerifier == "" {
		return nil, fmt.Errorf("%w: code and code_verifier are required", domain.ErrBadRequest)
	}

	session, err := s.provider.ExchangeCodeForSession(ctx, code, codeVerifier)
	if err != nil {
		return nil, badRequestFromProvider("exchange code", err)
	}
	return &SessionResult{User: session.User, Session: session}, nil
}

// badRequestFromProvider keeps the provider's message and hides transport errors
func badRequestFromProvider(op string, err error) error {
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %s", domain.ErrBadRequest, perr.Message)
	}
	log.Error().Err(err).Str("op", op).Msg("Auth provider request failed")
	return fmt.Errorf("%w: %s", domain.ErrBadRequest, msgProviderUnavailable)
}
