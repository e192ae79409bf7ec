package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the Supabase-specific claims of an access token
type CustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	User  struct {
		Email string `json:"email"`
	} `json:"user"`
	UserMetadata struct {
		Email string `json:"email"`
	} `json:"user_metadata"`
	AppMetadata struct {
		Roles []string `json:"roles"`
	} `json:"app_metadata"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// IdentityKey is the context key for the resolved *domain.Identity
	IdentityKey contextKey = "identity"
	// TokenKey is the context key for the raw bearer token
	TokenKey contextKey = "token"
	// PayloadKey is the context key for the verified domain.TokenPayload
	PayloadKey contextKey = "token_payload"
)

// IdentityValidator maps a verified token payload to a local identity
type IdentityValidator interface {
	Validate(ctx context.Context, payload domain.TokenPayload) (*domain.Identity, error)
}

// TokenVerifier checks Supabase-issued HS256 access tokens
type TokenVerifier struct {
	validator *validator.Validator
}

// NewTokenVerifier creates a verifier for tokens signed with secret
func NewTokenVerifier(secret, issuer, audience string) (*TokenVerifier, error) {
	key := []byte(secret)
	jwtValidator, err := validator.New(
		func(context.Context) (interface{}, error) { return key, nil },
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{validator: jwtValidator}, nil
}

// VerifyPayload validates token and extracts the fields used for identity
func (v *TokenVerifier) VerifyPayload(ctx context.Context, token string) (domain.TokenPayload, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return domain.TokenPayload{}, err
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return domain.TokenPayload{}, fmt.Errorf("unexpected claims type %T", claims)
	}

	payload := domain.TokenPayload{Subject: validated.RegisteredClaims.Subject}
	if custom, ok := validated.CustomClaims.(*CustomClaims); ok {
		payload.Email = custom.Email
		payload.UserEmail = custom.User.Email
		payload.MetaEmail = custom.UserMetadata.Email
		payload.Role = custom.Role
		payload.AppRoles = custom.AppMetadata.Roles
	}
	return payload, nil
}

// AuthMiddleware authenticates bearer tokens and resolves the caller
type AuthMiddleware struct {
	verifier   *TokenVerifier
	identities IdentityValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier *TokenVerifier, identities IdentityValidator) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		identities: identities,
	}
}

// Authenticate returns an Echo middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return badRequestError(c, err.Error())
			}

			ctx := c.Request().Context()
			payload, err := m.verifier.VerifyPayload(ctx, token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Invalid token")
			}

			identity, err := m.identities.Validate(ctx, payload)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return unauthorizedError(c, domain.Message(err))
				}
				log.Error().Err(err).Str("subject", payload.Subject).Msg("Identity resolution failed")
				return internalError(c)
			}

			ctx = context.WithValue(ctx, IdentityKey, identity)
			ctx = context.WithValue(ctx, TokenKey, token)
			ctx = context.WithValue(ctx, PayloadKey, payload)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("Authorization header not found")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("Invalid token type")
	}
	return strings.TrimSpace(token), nil
}

// RequireRole rejects callers whose token does not carry role.
// Must run after Authenticate.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload, ok := c.Request().Context().Value(PayloadKey).(domain.TokenPayload)
			if !ok {
				return unauthorizedError(c, "Invalid token")
			}
			if !payload.HasRole(role) {
				return forbiddenError(c, fmt.Sprintf("requires role %q", role))
			}
			return next(c)
		}
	}
}

// GetIdentity extracts the authenticated identity from the context
func GetIdentity(c echo.Context) *domain.Identity {
	if identity, ok := c.Request().Context().Value(IdentityKey).(*domain.Identity); ok {
		return identity
	}
	return nil
}

// GetToken extracts the raw bearer token from the context
func GetToken(c echo.Context) string {
	if token, ok := c.Request().Context().Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// GetTokenPayload extracts the verified token payload from the context
func GetTokenPayload(c echo.Context) (domain.TokenPayload, bool) {
	payload, ok := c.Request().Context().Value(PayloadKey).(domain.TokenPayload)
	return payload, ok
}
