package handler

import (
	"fmt"
	"net/http"

	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/dafibh/prolink/prolink-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles account operations backed by the identity provider
type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// SignUpRequest represents the registration request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// SignInRequest represents the sign-in request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest represents the password reset request
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest represents the password update request
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// SignUp godoc
// @Summary Register a new account
// @Description The provider emails a verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration request"
// @Success 201 {object} service.SignUpResult
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	result, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(c, err, "Failed to sign up")
	}
	return c.JSON(http.StatusCreated, result)
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} service.SessionResult
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	result, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Failed to sign in")
	}
	return c.JSON(http.StatusOK, result)
}

// SignOut godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	msg, err := h.authService.SignOut(c.Request().Context(), middleware.GetToken(c))
	if err != nil {
		return respondError(c, err, "Failed to sign out")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// ResetPassword godoc
// @Summary Request a password reset email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	msg, err := h.authService.ResetPassword(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err, "Failed to request password reset")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// UpdatePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Router /auth/update-password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	msg, err := h.authService.UpdatePassword(c.Request().Context(), middleware.GetToken(c), req.Password)
	if err != nil {
		return respondError(c, err, "Failed to update password")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ProblemDetails
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profile, err := h.profileService.GetOrCreateForUser(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// SocialAuthURL godoc
// @Summary Start an OAuth sign-in
// @Description Returns the provider URL and the PKCE verifier to send back with the callback
// @Tags auth
// @Produce json
// @Param provider path string true "google, github, facebook or twitter"
// @Success 200 {object} service.SocialAuthResult
// @Failure 400 {object} ProblemDetails
// @Router /auth/social/{provider} [get]
func (h *AuthHandler) SocialAuthURL(c echo.Context) error {
	result, err := h.authService.SocialAuthURL(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return respondError(c, err, "Failed to build authorization URL")
	}
	return c.JSON(http.StatusOK, result)
}

// SocialAuthCallback godoc
// @Summary Complete an OAuth sign-in
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param code_verifier query string true "PKCE verifier from the start call"
// @Success 200 {object} service.SessionResult
// @Failure 400 {object} ProblemDetails
// @Router /auth/social/callback [get]
func (h *AuthHandler) SocialAuthCallback(c echo.Context) error {
	result, err := h.authService.SocialAuthCallback(c.Request().Context(), c.QueryParam("code"), c.QueryParam("code_verifier"))
	if err != nil {
		return respondError(c, err, "Failed to complete sign in")
	}
	return c.JSON(http.StatusOK, result)
}

// AdminDashboard godoc
// @Summary Admin-only greeting
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ProblemDetails
// @Router /auth/admin-dashboard [get]
func (h *AuthHandler) AdminDashboard(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	log.Info().Str("user_id", identity.ID.String()).Msg("Admin dashboard accessed")
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Welcome to the admin dashboard, %s!", identity.Email),
	})
}
