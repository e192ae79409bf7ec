package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the local mirror of an identity issued by the auth provider.
// Its ID is the provider's subject claim.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// CreateWithProfile inserts the user and a default profile in one
	// transaction. Returns ErrAlreadyExists when the user row already exists.
	CreateWithProfile(ctx context.Context, id uuid.UUID, email string) (*User, *Profile, error)
}
