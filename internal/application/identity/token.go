package identity

import (
	"time"

	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/infrastructure/auth"
)

// IssueToken signs an access token carrying the user's id, email and global role
func IssueToken(jwtService *auth.JWTService, user *identity.User) (string, time.Time, error) {
	token, expiresAt, err := jwtService.GenerateToken(auth.TokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		return "", time.Time{}, shared.NewDomainError(shared.CodeInternal, "Failed to generate authentication token")
	}
	return token, expiresAt, nil
}
