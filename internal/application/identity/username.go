package identity

import (
	"context"

	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
)

// maxUsernameAttempts bounds the suffix search for a derived username
const maxUsernameAttempts = 1000

// ErrUsernameTaken is returned when a username cannot be used
var ErrUsernameTaken = shared.NewConflictError("Username already in use")

// AvailableUsername returns base when no account holds it, otherwise base with
// the smallest free numeric suffix starting at 2 (john_doe2, john_doe3, ...).
func AvailableUsername(ctx context.Context, users identity.UserRepository, base string) (string, error) {
	for n := 1; n <= maxUsernameAttempts; n++ {
		candidate := identity.UsernameWithSuffix(base, n)
		taken, err := users.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrUsernameTaken
}
