package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Default values for a freshly provisioned profile
const (
	DefaultProfileStatus = "available"
)

// Experience is a single work history entry
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single education history entry
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Profile is the public professional profile owned by exactly one user.
// List fields are never nil once a Profile leaves the repository.
type Profile struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"userId"`
	FullName    string       `json:"fullName"`
	Headline    string       `json:"headline"`
	Bio         string       `json:"bio"`
	Location    string       `json:"location"`
	Website     string       `json:"website"`
	AvatarURL   string       `json:"avatarUrl"`
	Status      string       `json:"status"`
	Skills      []string     `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewDefaultProfile returns the profile created alongside a new user
func NewDefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:      userID,
		Status:      DefaultProfileStatus,
		Skills:      []string{},
		Experiences: []Experience{},
		Education:   []Education{},
	}
}

// ProfileRepository defines the interface for profile persistence operations
type ProfileRepository interface {
	List(ctx context.Context) ([]*Profile, error)
	ListExcept(ctx context.Context, userID uuid.UUID) ([]*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Create inserts a profile for the user. Returns ErrAlreadyExists if the
	// user already owns one.
	Create(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error)
	// EnsureForUser returns the user's profile, inserting a default one if absent
	EnsureForUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*Profile, error)
	UpdateByUserID(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error)
	UpdateAvatarByUserID(ctx context.Context, userID uuid.UUID, avatarURL string) (*Profile, error)
	Delete(ctx context.Context, id uuid.UUID) (*Profile, error)
}
