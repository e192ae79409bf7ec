package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dafibh/prolink/prolink-backend/db/sqlc"
	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

var _ domain.ProfileRepository = (*ProfileRepository)(nil)

// profileRow is the column set every profile query returns. The other
// generated row types convert to it directly.
type profileRow = sqlc.GetProfileByIDRow

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	queries *sqlc.Queries
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{
		queries: sqlc.New(db),
	}
}

// List returns every profile, newest first
func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	rows, err := r.queries.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, sqlcProfileToDomain(profileRow(row)))
	}
	return profiles, nil
}

// ListExcept returns all profiles not owned by userID, ordered by full name
func (r *ProfileRepository) ListExcept(ctx context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	rows, err := r.queries.ListProfilesExceptUser(ctx, uuidToPg(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, sqlcProfileToDomain(profileRow(row)))
	}
	return profiles, nil
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	row, err := r.queries.GetProfileByID(ctx, uuidToPg(id))
	if err != nil {
		return nil, profileQueryError("get profile by id", err)
	}
	return sqlcProfileToDomain(row), nil
}

// GetByUserID retrieves the profile owned by a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return getProfileByUserID(ctx, r.queries, userID)
}

// Create inserts a profile built from the defaults plus the given fields
func (r *ProfileRepository) Create(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	p := domain.NewDefaultProfile(userID)
	update.Apply(p)

	experiences, err := json.Marshal(p.Experiences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode experiences: %w", err)
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return nil, fmt.Errorf("failed to encode education: %w", err)
	}

	created, err := r.queries.CreateProfile(ctx, sqlc.CreateProfileParams{
		UserID:      uuidToPg(userID),
		FullName:    p.FullName,
		Headline:    p.Headline,
		Bio:         p.Bio,
		Location:    p.Location,
		Website:     p.Website,
		AvatarUrl:   p.AvatarURL,
		Status:      p.Status,
		Skills:      nonNil(p.Skills),
		Experiences: experiences,
		Education:   education,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return sqlcProfileToDomain(profileRow(created)), nil
}

// EnsureForUser returns the user's profile, inserting a default one if absent
func (r *ProfileRepository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return ensureProfile(ctx, r.queries, userID)
}

// Update applies a partial update to the profile with the given ID
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	params, err := buildProfileUpdate(id, update)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.UpdateProfile(ctx, params)
	if err != nil {
		return nil, profileQueryError("update profile", err)
	}
	return sqlcProfileToDomain(profileRow(row)), nil
}

// UpdateByUserID applies a partial update to the profile owned by userID
func (r *ProfileRepository) UpdateByUserID(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	params, err := buildProfileUpdate(userID, update)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.UpdateProfileByUserID(ctx, sqlc.UpdateProfileByUserIDParams(params))
	if err != nil {
		return nil, profileQueryError("update profile", err)
	}
	return sqlcProfileToDomain(profileRow(row)), nil
}

// UpdateAvatarByUserID sets only the avatar URL of the user's profile
func (r *ProfileRepository) UpdateAvatarByUserID(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.Profile, error) {
	row, err := r.queries.UpdateProfileAvatarByUserID(ctx, sqlc.UpdateProfileAvatarByUserIDParams{
		UserID:    uuidToPg(userID),
		AvatarUrl: avatarURL,
	})
	if err != nil {
		return nil, profileQueryError("update avatar", err)
	}
	return sqlcProfileToDomain(profileRow(row)), nil
}

// Delete removes a profile and returns it. The owning user is kept.
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	row, err := r.queries.DeleteProfile(ctx, uuidToPg(id))
	if err != nil {
		return nil, profileQueryError("delete profile", err)
	}
	return sqlcProfileToDomain(profileRow(row)), nil
}

// buildProfileUpdate maps the present fields to nullable arguments. Absent
// text fields stay NULL and COALESCE keeps the stored value; list columns
// are only written when their set flag is on.
func buildProfileUpdate(target uuid.UUID, update domain.ProfileUpdate) (sqlc.UpdateProfileParams, error) {
	params := sqlc.UpdateProfileParams{
		FullName:  stringPtrToPgText(update.FullName),
		Headline:  stringPtrToPgText(update.Headline),
		Bio:       stringPtrToPgText(update.Bio),
		Location:  stringPtrToPgText(update.Location),
		Website:   stringPtrToPgText(update.Website),
		AvatarUrl: stringPtrToPgText(update.AvatarURL),
		Status:    stringPtrToPgText(update.Status),
		TargetID:  uuidToPg(target),
	}

	if update.Skills != nil {
		params.SetSkills = true
		params.Skills = nonNil(*update.Skills)
	}
	if update.Experiences != nil {
		encoded, err := json.Marshal(nonNil(*update.Experiences))
		if err != nil {
			return sqlc.UpdateProfileParams{}, fmt.Errorf("failed to encode experiences: %w", err)
		}
		params.SetExperiences = true
		params.Experiences = encoded
	}
	if update.Education != nil {
		encoded, err := json.Marshal(nonNil(*update.Education))
		if err != nil {
			return sqlc.UpdateProfileParams{}, fmt.Errorf("failed to encode education: %w", err)
		}
		params.SetEducation = true
		params.Education = encoded
	}

	return params, nil
}

func getProfileByUserID(ctx context.Context, q *sqlc.Queries, userID uuid.UUID) (*domain.Profile, error) {
	row, err := q.GetProfileByUserID(ctx, uuidToPg(userID))
	if err != nil {
		return nil, profileQueryError("get profile by user id", err)
	}
	return sqlcProfileToDomain(profileRow(row)), nil
}

// ensureProfile inserts a default profile unless one exists, then reads it.
// ON CONFLICT waits for a concurrent inserter, so the follow-up read sees its row.
func ensureProfile(ctx context.Context, q *sqlc.Queries, userID uuid.UUID) (*domain.Profile, error) {
	err := q.EnsureProfile(ctx, sqlc.EnsureProfileParams{
		UserID: uuidToPg(userID),
		Status: domain.DefaultProfileStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return getProfileByUserID(ctx, q, userID)
}

func profileQueryError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Helper functions

// sqlcProfileToDomain maps a row to a Profile, normalizing list columns once
func sqlcProfileToDomain(row profileRow) *domain.Profile {
	id := uuid.UUID(row.ID.Bytes)
	return &domain.Profile{
		ID:          id,
		UserID:      uuid.UUID(row.UserID.Bytes),
		FullName:    row.FullName,
		Headline:    row.Headline,
		Bio:         row.Bio,
		Location:    row.Location,
		Website:     row.Website,
		AvatarURL:   row.AvatarUrl,
		Status:      row.Status,
		Skills:      resolveList[string](id, "skills", row.Skills),
		Experiences: resolveList[domain.Experience](id, "experiences", row.Experiences),
		Education:   resolveList[domain.Education](id, "education", row.Education),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func resolveList[T any](profileID uuid.UUID, column string, raw pgtype.Text) []T {
	var field domain.ListField[T]
	if !raw.Valid {
		field = domain.ValidList[T](nil)
	} else {
		field = domain.DecodeListField[T]([]byte(raw.String))
	}

	items, err := field.Resolve()
	if err != nil {
		log.Warn().
			Err(err).
			Str("profile_id", profileID.String()).
			Str("column", column).
			Msg("Malformed list column, using empty list")
	}
	return items
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func uuidToPg(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}
