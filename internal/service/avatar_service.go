package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/repository/storage"
	"github.com/dafibh/prolink/prolink-backend/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxAvatarBytes     = 5 * 1024 * 1024 // 5MB
	DefaultMaxAvatarDimension = 1024
	JPEGQuality               = 85
)

// AllowedAvatarTypes maps accepted MIME types to their file extension
var AllowedAvatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// resizableFormats are the types re-encoded when larger than the max dimension
var resizableFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
}

// AvatarStore uploads an object and returns its public URL
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

var _ AvatarStore = (*storage.Gateway)(nil)

// AvatarFile is an uploaded avatar image
type AvatarFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AvatarResult is returned after a successful upload
type AvatarResult struct {
	AvatarURL string `json:"avatarUrl"`
}

// AvatarService validates, stores and links profile avatars
type AvatarService struct {
	store          AvatarStore
	profiles       *ProfileService
	maxBytes       int
	maxDimension   int
	eventPublisher websocket.EventPublisher
}

// NewAvatarService creates a new AvatarService. Zero limits fall back to
// the defaults.
func NewAvatarService(store AvatarStore, profiles *ProfileService, maxBytes, maxDimension int) *AvatarService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAvatarBytes
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxAvatarDimension
	}
	return &AvatarService{
		store:        store,
		profiles:     profiles,
		maxBytes:     maxBytes,
		maxDimension: maxDimension,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AvatarService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// Validate checks the type allow-list and the size limit
func (s *AvatarService) Validate(file AvatarFile) error {
	if _, ok := AllowedAvatarTypes[normalizeContentType(file.ContentType)]; !ok {
		return fmt.Errorf("%w: invalid file type. Only JPEG, PNG, GIF and WebP images are allowed", domain.ErrBadRequest)
	}
	if len(file.Data) == 0 {
		return fmt.Errorf("%w: no file uploaded", domain.ErrBadRequest)
	}
	if len(file.Data) > s.maxBytes {
		return fmt.Errorf("%w: file too large. Maximum size is %dMB", domain.ErrBadRequest, s.maxBytes/(1024*1024))
	}
	return nil
}

// Upload stores the caller's avatar and points their profile at it
func (s *AvatarService) Upload(ctx context.Context, owner *domain.Identity, file AvatarFile) (*AvatarResult, error) {
	if err := s.Validate(file); err != nil {
		return nil, err
	}
	contentType := normalizeContentType(file.ContentType)

	data, err := s.downscale(file.Data, contentType)
	if err != nil {
		return nil, err
	}

	key := storage.GenerateAvatarPath(owner.ID, avatarExtension(file.Filename, contentType))
	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", owner.ID.String()).Str("key", key).Msg("Avatar upload failed")
		return nil, err
	}

	profile, err := s.profiles.UpdateByUserID(ctx, owner, domain.AvatarUpdate(url))
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.PublishToUser(owner.ID, websocket.ProfileAvatarUpdated(AvatarResult{AvatarURL: profile.AvatarURL}).About(profile.ID))
	}

	log.Info().Str("user_id", owner.ID.String()).Str("key", key).Msg("Avatar uploaded")
	return &AvatarResult{AvatarURL: url}, nil
}

// downscale shrinks JPEG and PNG images that exceed the max dimension.
// Other formats and images within bounds are stored as sent.
func (s *AvatarService) downscale(data []byte, contentType string) ([]byte, error) {
	format, ok := resizableFormats[contentType]
	if !ok {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image data", domain.ErrBadRequest)
	}
	if cfg.Width <= s.maxDimension && cfg.Height <= s.maxDimension {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image data", domain.ErrBadRequest)
	}
	resized := imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// avatarExtension prefers the uploaded file's extension when it matches the type
func avatarExtension(filename, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	want := AllowedAvatarTypes[contentType]
	if ext == want || (want == "jpg" && ext == "jpeg") {
		return ext
	}
	return want
}
