package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/dafibh/prolink/prolink-backend/internal/service"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

const (
	// avatarFormField is the multipart field carrying the image
	avatarFormField = "avatar"

	// multipartHeadroom covers the form envelope around the file
	multipartHeadroom = 1 << 20
)

// UploadBodyLimit is the request body cap for an avatar upload of at most
// maxBytes, in the size syntax of echo's BodyLimit middleware
func UploadBodyLimit(maxBytes int64) string {
	return fmt.Sprintf("%dK", (maxBytes+multipartHeadroom+1023)/1024)
}

// AvatarHandler handles avatar uploads
type AvatarHandler struct {
	avatarService *service.AvatarService
	maxBytes      int64
}

// NewAvatarHandler creates a new AvatarHandler. maxBytes bounds how much
// of the upload is read before validation.
func NewAvatarHandler(avatarService *service.AvatarService, maxBytes int64) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, maxBytes: maxBytes}
}

// BodyLimit rejects upload bodies well past the avatar size limit with 413
// before the multipart form is parsed
func (h *AvatarHandler) BodyLimit() echo.MiddlewareFunc {
	return echomiddleware.BodyLimit(UploadBodyLimit(h.maxBytes))
}

// UploadAvatar godoc
// @Summary Upload the caller's avatar
// @Description JPEG, PNG, GIF or WebP up to 5MB. Large images are scaled down.
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image file"
// @Success 200 {object} service.AvatarResult
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 413 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /profiles/upload-avatar [post]
func (h *AvatarHandler) UploadAvatar(c echo.Context) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.avatarService == nil {
		return NewServiceUnavailableError(c, "Avatar uploads are disabled (storage not configured)")
	}

	file, err := c.FormFile(avatarFormField)
	if err != nil {
		return NewValidationError(c, "No file uploaded", []ValidationError{
			{Field: avatarFormField, Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// Read one byte past the limit so oversize files still fail validation
	data, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	result, err := h.avatarService.Upload(c.Request().Context(), identity, service.AvatarFile{
		Filename:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return respondError(c, err, "Failed to upload avatar")
	}

	return c.JSON(http.StatusOK, result)
}
