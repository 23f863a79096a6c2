package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/config"
)

// Authorizer decides admin-gated actions.
//
// In team mode an action on a team requires an admin membership in that team,
// and actions without a team (creating one) require an admin membership in
// any team. In global mode every admin-gated action requires the user's
// global role to be admin.
type Authorizer struct {
	mode        string
	memberships team.MembershipRepository
}

// NewAuthorizer creates an Authorizer for the given auth.mode
func NewAuthorizer(mode string, memberships team.MembershipRepository) *Authorizer {
	if mode != config.AuthModeGlobal {
		mode = config.AuthModeTeam
	}
	return &Authorizer{mode: mode, memberships: memberships}
}

// Mode returns the active authorization mode
func (a *Authorizer) Mode() string {
	return a.mode
}

// IsTeamAdmin reports whether user may administer teamID
func (a *Authorizer) IsTeamAdmin(ctx context.Context, user *identity.User, teamID uuid.UUID) (bool, error) {
	if a.mode == config.AuthModeGlobal {
		return user.IsAdmin(), nil
	}
	m, err := a.memberships.Find(ctx, teamID, user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.IsAdmin(), nil
}

// RequireTeamAdmin returns a forbidden error with message unless user administers teamID
func (a *Authorizer) RequireTeamAdmin(ctx context.Context, user *identity.User, teamID uuid.UUID, message string) error {
	ok, err := a.IsTeamAdmin(ctx, user, teamID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewForbiddenError(message)
	}
	return nil
}

// CanCreateTeam reports whether user may create a new team
func (a *Authorizer) CanCreateTeam(ctx context.Context, user *identity.User) (bool, error) {
	if a.mode == config.AuthModeGlobal {
		return user.IsAdmin(), nil
	}
	ids, err := a.AdminTeamIDs(ctx, user)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// AdminTeamIDs lists the teams user belongs to and may administer, oldest membership first
func (a *Authorizer) AdminTeamIDs(ctx context.Context, user *identity.User) ([]uuid.UUID, error) {
	memberships, err := a.memberships.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		if a.mode == config.AuthModeGlobal {
			if user.IsAdmin() {
				ids = append(ids, m.TeamID)
			}
			continue
		}
		if m.IsAdmin() {
			ids = append(ids, m.TeamID)
		}
	}
	return ids, nil
}
