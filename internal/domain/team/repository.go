package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
)

// Repository persists teams
type Repository interface {
	Create(ctx context.Context, team *Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)
	// FindByMember returns the teams userID belongs to, oldest first
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*Team, error)
	// Delete removes the team together with its memberships and invitations
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepository persists memberships
type MembershipRepository interface {
	// Create persists a membership; a duplicate (user, team) pair yields ErrAlreadyMember
	Create(ctx context.Context, m *Membership) error
	Find(ctx context.Context, teamID, userID uuid.UUID) (*Membership, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	FindMembers(ctx context.Context, teamID uuid.UUID) ([]MemberDetail, error)
	Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// AddMember records userID as a member of teamID with role.
// An empty role means member; an existing (user, team) pair yields ErrAlreadyMember.
func AddMember(ctx context.Context, memberships MembershipRepository, teamID, userID uuid.UUID, role identity.Role) (*Membership, error) {
	m, err := NewMembership(teamID, userID, role)
	if err != nil {
		return nil, err
	}
	if err := memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
