package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user. Duplicate email or username yields ALREADY_EXISTS.
	Create(ctx context.Context, user *User) error

	// Update saves an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername finds a user by username, case-insensitively
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll returns every user ordered by name
	FindAll(ctx context.Context) ([]*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks if a username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
