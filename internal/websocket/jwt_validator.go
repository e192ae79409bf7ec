package websocket

import (
	"context"
	"errors"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrUserNotResolved is returned when the token's user cannot be resolved
var ErrUserNotResolved = errors.New("user not resolved")

// ClaimsVerifier verifies a raw JWT and extracts its payload
type ClaimsVerifier interface {
	VerifyPayload(ctx context.Context, token string) (domain.TokenPayload, error)
}

// IdentityResolver maps a verified payload to a local identity
type IdentityResolver interface {
	Validate(ctx context.Context, payload domain.TokenPayload) (*domain.Identity, error)
}

// SupabaseJWTValidator validates access tokens passed on the WebSocket URL
type SupabaseJWTValidator struct {
	verifier   ClaimsVerifier
	identities IdentityResolver
}

// NewSupabaseJWTValidator creates a new SupabaseJWTValidator
func NewSupabaseJWTValidator(verifier ClaimsVerifier, identities IdentityResolver) *SupabaseJWTValidator {
	return &SupabaseJWTValidator{verifier: verifier, identities: identities}
}

// ValidateToken validates a JWT and returns the caller's user ID
func (v *SupabaseJWTValidator) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	payload, err := v.verifier.VerifyPayload(ctx, token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	identity, err := v.identities.Validate(ctx, payload)
	if err != nil {
		return uuid.Nil, ErrUserNotResolved
	}
	return identity.ID, nil
}
