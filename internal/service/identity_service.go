package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxProvisionAttempts bounds the create/re-fetch loop for first-time users
const maxProvisionAttempts = 3

// IdentityService resolves verified token payloads to local users,
// provisioning the user and a default profile on first sight.
type IdentityService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	eventPublisher websocket.EventPublisher
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(userRepo domain.UserRepository, profileRepo domain.ProfileRepository) *IdentityService {
	return &IdentityService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *IdentityService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// Validate returns the identity for payload. A known user costs one read and
// no writes; an unknown subject with an email is provisioned.
func (s *IdentityService) Validate(ctx context.Context, payload domain.TokenPayload) (*domain.Identity, error) {
	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrMissingSubject)
	}
	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return domain.IdentityFromUser(user), nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to look up user")
		return nil, err
	}

	email := payload.ResolveEmail()
	if email == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrMissingEmail)
	}

	user, err = provisionUser(ctx, s.userRepo, s.profileRepo, s.eventPublisher, userID, email)
	if err != nil {
		return nil, err
	}
	return domain.IdentityFromUser(user), nil
}

// provisionUser creates the user and its default profile. When another
// request wins the insert, the existing user is re-read and its profile
// ensured instead.
func provisionUser(ctx context.Context, users domain.UserRepository, profiles domain.ProfileRepository,
	publisher websocket.EventPublisher, userID uuid.UUID, email string) (*domain.User, error) {
	for attempt := 1; attempt <= maxProvisionAttempts; attempt++ {
		user, profile, err := users.CreateWithProfile(ctx, userID, email)
		if err == nil {
			log.Info().Str("user_id", userID.String()).Msg("Provisioned new user with default profile")
			if publisher != nil && profile != nil {
				publisher.Publish(websocket.ProfileCreated(profile).About(profile.ID))
			}
			return user, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to provision user")
			return nil, err
		}

		existing, getErr := users.GetByID(ctx, userID)
		if getErr == nil {
			if _, err := profiles.EnsureForUser(ctx, existing.ID); err != nil {
				return nil, err
			}
			return existing, nil
		}
		if !errors.Is(getErr, domain.ErrUserNotFound) {
			return nil, getErr
		}

		// The conflict was on the email of a different subject.
		log.Warn().
			Str("user_id", userID.String()).
			Int("attempt", attempt).
			Msg("User provisioning conflict")
	}

	return nil, fmt.Errorf("%w: could not provision user %s", domain.ErrInternal, userID)
}
