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

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	eventPublisher websocket.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, profileRepo domain.ProfileRepository) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ProfileService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ProfileService) publish(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// FindAll returns every profile
func (s *ProfileService) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	return s.profileRepo.List(ctx)
}

// FindOne returns the profile with the given ID
func (s *ProfileService) FindOne(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// FindByUserID returns the profile owned by userID
func (s *ProfileService) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// FindAllExcept returns every profile not owned by userID, ordered by full name
func (s *ProfileService) FindAllExcept(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	return s.profileRepo.ListExcept(ctx, userID)
}

// Create inserts the caller's profile. A second profile for the same user
// is rejected.
func (s *ProfileService) Create(ctx context.Context, owner *domain.Identity, input domain.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.profileRepo.Create(ctx, owner.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: profile already exists for this user", domain.ErrBadRequest)
		}
		log.Error().Err(err).Str("user_id", owner.ID.String()).Msg("Failed to create profile")
		return nil, err
	}

	s.publish(websocket.ProfileCreated(profile).About(profile.ID))
	return profile, nil
}

// Update applies a partial update to the profile with the given ID
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.profileRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.publish(websocket.ProfileUpdated(profile).About(profile.ID))
	return profile, nil
}

// UpdateByUserID applies a partial update to the caller's profile, creating
// the user and profile first if either is missing.
func (s *ProfileService) UpdateByUserID(ctx context.Context, owner *domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	if _, err := s.GetOrCreateForUser(ctx, owner); err != nil {
		return nil, err
	}

	var (
		profile *domain.Profile
		err     error
	)
	if update.IsAvatarOnly() {
		profile, err = s.profileRepo.UpdateAvatarByUserID(ctx, owner.ID, *update.AvatarURL)
	} else {
		profile, err = s.profileRepo.UpdateByUserID(ctx, owner.ID, update)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", owner.ID.String()).Msg("Failed to update profile")
		return nil, err
	}

	s.publish(websocket.ProfileUpdated(profile).About(profile.ID))
	return profile, nil
}

// GetOrCreateForUser returns the caller's profile, healing a missing user or
// profile on the way.
func (s *ProfileService) GetOrCreateForUser(ctx context.Context, owner *domain.Identity) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, owner.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	_, err = s.userRepo.GetByID(ctx, owner.ID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		if owner.Email == "" {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrMissingEmail)
		}
		if _, err := provisionUser(ctx, s.userRepo, s.profileRepo, s.eventPublisher, owner.ID, owner.Email); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	profile, err = s.profileRepo.EnsureForUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", owner.ID.String()).Msg("Restored missing profile")
	return profile, nil
}

// Delete removes a profile and returns it. The owning user is kept.
func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(websocket.ProfileDeleted(profile).About(profile.ID))
	return profile, nil
}
