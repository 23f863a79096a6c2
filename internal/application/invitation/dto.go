package invitation

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
)

// CreateInvitationInput describes who to invite and where.
// A nil TeamID selects the inviter's first administered team.
type CreateInvitationInput struct {
	Email  string
	Role   identity.Role
	TeamID *uuid.UUID
}

// CreatedInvitation is a stored invitation with its SPA accept path
type CreatedInvitation struct {
	Invitation *invitation.Invitation
	InviteLink string
}

// AcceptInput carries the account fields used when the invitee has no account yet
type AcceptInput struct {
	FirstName       string
	LastName        string
	Username        string
	Password        string
	ConfirmPassword string
}

// Preview is the public view of an invitation shown before accepting
type Preview struct {
	Email     string
	Role      identity.Role
	TeamName  string
	ExpiresAt time.Time
}
