package team

import (
	"strings"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
)

// MaxNameLength bounds team names
const MaxNameLength = 100

// Team groups users that share invitations and administration.
type Team struct {
	shared.BaseEntity
	Name      string
	CreatedBy uuid.UUID
}

// NewTeam creates a team owned by creatorID
func NewTeam(name string, creatorID uuid.UUID) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Team name is required")
	}
	if len(name) > MaxNameLength {
		return nil, shared.NewValidationError("Team name cannot exceed 100 characters")
	}
	if creatorID == uuid.Nil {
		return nil, shared.NewValidationError("Team creator is required")
	}

	return &Team{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CreatedBy:  creatorID,
	}, nil
}

// PersonalTeamName is the name of the team created for a newly registered user
func PersonalTeamName(firstName string) string {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		firstName = "My"
	}
	return firstName + " Team"
}

// Membership links a user to a team with a team-scoped role.
type Membership struct {
	shared.BaseEntity
	TeamID uuid.UUID
	UserID uuid.UUID
	Role   identity.Role
}

// NewMembership creates a membership; an empty role defaults to member.
func NewMembership(teamID, userID uuid.UUID, role identity.Role) (*Membership, error) {
	if role == "" {
		role = identity.RoleMember
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Role must be admin or member")
	}
	if teamID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewValidationError("Team and user are required")
	}

	return &Membership{
		BaseEntity: shared.NewBaseEntity(),
		TeamID:     teamID,
		UserID:     userID,
		Role:       role,
	}, nil
}

// IsAdmin reports whether the membership grants team administration
func (m *Membership) IsAdmin() bool {
	return m.Role == identity.RoleAdmin
}

// MemberDetail is a membership joined with the member's user record.
type MemberDetail struct {
	Membership
	User *identity.User
}

// TeamWithMembers is a team together with its member details.
type TeamWithMembers struct {
	Team
	Members []MemberDetail
}

// ErrAlreadyMember is returned when a (user, team) pair already exists
var ErrAlreadyMember = shared.NewConflictError("User is already a member of this team")
