package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/dafibh/prolink/prolink-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxProfileBodyBytes caps profile request bodies
const maxProfileBodyBytes = 1 << 20

// ProfileInput is the writable part of a profile. Identifiers, ownership
// and timestamps are set by the server.
type ProfileInput struct {
	FullName    *string             `json:"fullName,omitempty"`
	Headline    *string             `json:"headline,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Website     *string             `json:"website,omitempty"`
	AvatarURL   *string             `json:"avatarUrl,omitempty"`
	Status      *string             `json:"status,omitempty"`
	Skills      []string            `json:"skills,omitempty"`
	Experiences []domain.Experience `json:"experiences,omitempty"`
	Education   []domain.Education  `json:"education,omitempty"`
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ListProfiles godoc
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Success 200 {array} domain.Profile
// @Failure 500 {object} ProblemDetails
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.profileService.FindAll(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to list profiles")
	}
	return c.JSON(http.StatusOK, nonNil(profiles))
}

// GetProfile godoc
// @Summary Get a profile by ID
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID (UUID)"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id, ok := parseProfileID(c)
	if !ok {
		return invalidProfileID(c)
	}

	profile, err := h.profileService.FindOne(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Description Returns the caller's profile, creating it if missing
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ProblemDetails
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
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

// ListProfessionals godoc
// @Summary List other professionals
// @Description Every profile except the caller's, ordered by full name
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Profile
// @Failure 401 {object} ProblemDetails
// @Router /profiles/professionals [get]
func (h *ProfileHandler) ListProfessionals(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profiles, err := h.profileService.FindAllExcept(c.Request().Context(), identity.ID)
	if err != nil {
		return respondError(c, err, "Failed to list profiles")
	}
	return c.JSON(http.StatusOK, nonNil(profiles))
}

// CreateProfile godoc
// @Summary Create the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileInput false "Profile fields"
// @Success 201 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	update, err := decodeProfileUpdate(c)
	if err != nil {
		return NewValidationError(c, domain.Message(err), nil)
	}

	profile, err := h.profileService.Create(c.Request().Context(), identity, update)
	if err != nil {
		return respondError(c, err, "Failed to create profile")
	}
	return c.JSON(http.StatusCreated, profile)
}

// UpdateMyProfile godoc
// @Summary Update the caller's profile
// @Description Partial update; only fields present in the body change
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileInput false "Fields to change"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	update, err := decodeProfileUpdate(c)
	if err != nil {
		return NewValidationError(c, domain.Message(err), nil)
	}

	profile, err := h.profileService.UpdateByUserID(c.Request().Context(), identity, update)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update a profile by ID
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID (UUID)"
// @Param request body ProfileInput false "Fields to change"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	id, ok := parseProfileID(c)
	if !ok {
		return invalidProfileID(c)
	}

	update, err := decodeProfileUpdate(c)
	if err != nil {
		return NewValidationError(c, domain.Message(err), nil)
	}

	profile, err := h.profileService.Update(c.Request().Context(), id, update)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile godoc
// @Summary Delete a profile
// @Description Removes the profile and returns it; the owning user is kept
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID (UUID)"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	id, ok := parseProfileID(c)
	if !ok {
		return invalidProfileID(c)
	}

	profile, err := h.profileService.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to delete profile")
	}
	return c.JSON(http.StatusOK, profile)
}

func parseProfileID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

func invalidProfileID(c echo.Context) error {
	return NewValidationError(c, "Invalid profile ID", []ValidationError{
		{Field: "id", Message: "Must be a valid UUID"},
	})
}

// decodeProfileUpdate reads a partial profile body. An empty body is an
// empty update.
func decodeProfileUpdate(c echo.Context) (domain.ProfileUpdate, error) {
	var update domain.ProfileUpdate

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxProfileBodyBytes))
	if err != nil {
		return update, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return update, nil
	}
	if err := json.Unmarshal(body, &update); err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return domain.ProfileUpdate{}, err
		}
		return domain.ProfileUpdate{}, fmt.Errorf("%w: invalid JSON body", domain.ErrBadRequest)
	}
	return update, nil
}

func nonNil(profiles []*domain.Profile) []*domain.Profile {
	if profiles == nil {
		return []*domain.Profile{}
	}
	return profiles
}
