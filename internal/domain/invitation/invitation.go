package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
)

const (
	// TokenBytes is the amount of randomness in an invitation token
	TokenBytes = 32
	// DefaultTTL is how long an invitation stays acceptable
	DefaultTTL = 3 * 24 * time.Hour
)

var (
	// ErrInvalidToken is returned when no invitation matches a token
	ErrInvalidToken = shared.NewNotFoundError("Invalid or expired invitation")
	// ErrExpired is returned when an invitation is past its expiry
	ErrExpired = shared.NewDomainError(shared.CodeExpired, "Invitation has expired")
)

// Invitation grants its holder a single-use, time-limited right to join a team.
type Invitation struct {
	shared.BaseEntity
	Email     string
	TeamID    uuid.UUID
	InviterID uuid.UUID
	Role      identity.Role
	Token     string
	ExpiresAt time.Time
	Accepted  bool
}

// New creates an invitation with a fresh random token that expires after ttl
func New(email string, teamID, inviterID uuid.UUID, role identity.Role, ttl time.Duration) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("Invalid email format")
	}
	if role == "" {
		role = identity.RoleMember
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Role must be admin or member")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	base := shared.NewBaseEntity()
	return &Invitation{
		BaseEntity: base,
		Email:      email,
		TeamID:     teamID,
		InviterID:  inviterID,
		Role:       role,
		Token:      token,
		ExpiresAt:  base.CreatedAt.Add(ttl),
	}, nil
}

// GenerateToken returns 32 cryptographically random bytes encoded as 64 hex characters
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsExpired reports whether the invitation can no longer be accepted at now
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// IsPending reports whether the invitation is still open at now
func (i *Invitation) IsPending(now time.Time) bool {
	return i.ExpiresAt.After(now)
}

// AcceptLink is the SPA path that accepts this invitation
func (i *Invitation) AcceptLink() string {
	return "/accept-invite?token=" + i.Token
}
