package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenPayload is the subset of verified JWT claims the application cares about
type TokenPayload struct {
	Subject   string
	Email     string
	UserEmail string
	MetaEmail string
	Role      string
	AppRoles  []string
}

// ResolveEmail returns the first non-empty email in lookup order:
// top-level email, user.email, then user_metadata.email.
func (p TokenPayload) ResolveEmail() string {
	for _, candidate := range []string{p.Email, p.UserEmail, p.MetaEmail} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// HasRole reports whether the payload grants the given role
func (p TokenPayload) HasRole(role string) bool {
	if p.Role == role {
		return true
	}
	for _, r := range p.AppRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity is the authenticated caller attached to a request
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IdentityFromUser converts a persisted user into a request identity
func IdentityFromUser(u *User) *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
