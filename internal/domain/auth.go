package domain

import (
	"context"
	"fmt"
	"time"
)

// SupportedOAuthProviders lists the social login providers accepted by the API
var SupportedOAuthProviders = map[string]bool{
	"google":   true,
	"github":   true,
	"facebook": true,
	"twitter":  true,
}

// AuthUser is a user record as returned by the auth provider
type AuthUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Session is an issued token set
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	RefreshToken string    `json:"refresh_token"`
	User         *AuthUser `json:"user,omitempty"`
}

// ProviderError is an error response from the auth or storage provider
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%d): %s", e.Status, e.Message)
}

// OAuthRedirect is the provider URL that starts a social sign-in and the
// PKCE verifier to present with the code it returns
type OAuthRedirect struct {
	URL          string
	CodeVerifier string
}

// AuthProvider is the hosted identity provider
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*AuthUser, *Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, password string) (*AuthUser, error)
	// Authorize starts a PKCE OAuth flow with the given social provider
	Authorize(ctx context.Context, provider, redirectTo string) (*OAuthRedirect, error)
	ExchangeCodeForSession(ctx context.Context, authCode, codeVerifier string) (*Session, error)
}
