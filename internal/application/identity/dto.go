package identity

import (
	"time"

	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/team"
)

// RegisterInput contains the input for self-registration
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Username        string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a user together with a freshly issued access token
type AuthResult struct {
	User      *identity.User
	Token     string
	ExpiresAt time.Time
}

// UpdateProfileInput contains the fields a user may change on their own account.
// Empty strings leave the field unchanged.
type UpdateProfileInput struct {
	FirstName       string
	LastName        string
	Avatar          string
	CurrentPassword string
	NewPassword     string
}

// CurrentUser is the authenticated user with their team memberships
type CurrentUser struct {
	User        *identity.User
	Memberships []*team.Membership
}
