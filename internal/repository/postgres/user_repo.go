package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/prolink/prolink-backend/db/sqlc"
	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	db      DB
	queries *sqlc.Queries
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db:      db,
		queries: sqlc.New(db),
	}
}

// GetByID retrieves a user by their provider subject
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := r.queries.GetUserByID(ctx, uuidToPg(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return sqlcUserToDomain(user), nil
}

// CreateWithProfile inserts a user and its default profile atomically
func (r *UserRepository) CreateWithProfile(ctx context.Context, id uuid.UUID, email string) (*domain.User, *domain.Profile, error) {
	var (
		user    *domain.User
		profile *domain.Profile
	)

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		qtx := r.queries.WithTx(tx)

		created, err := qtx.CreateUser(ctx, sqlc.CreateUserParams{
			ID:    uuidToPg(id),
			Email: email,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		p, err := ensureProfile(ctx, qtx, id)
		if err != nil {
			return err
		}

		user, profile = sqlcUserToDomain(created), p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}

func sqlcUserToDomain(u sqlc.User) *domain.User {
	return &domain.User{
		ID:        uuid.UUID(u.ID.Bytes),
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Time,
		UpdatedAt: u.UpdatedAt.Time,
	}
}
