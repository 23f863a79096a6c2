package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	t.Run("commits every write", func(t *testing.T) {
		u, err := identity.NewUser("alice@example.com", "alice", "secret123", "Alice", "", identity.RoleMember)
		require.NoError(t, err)

		err = scope.Execute(ctx, func(repos transaction.Repositories) error {
			if err := repos.Users().Create(ctx, u); err != nil {
				return err
			}
			tm, err := team.NewTeam(team.PersonalTeamName(u.FirstName), u.ID)
			if err != nil {
				return err
			}
			if err := repos.Teams().Create(ctx, tm); err != nil {
				return err
			}
			m, err := team.NewMembership(tm.ID, u.ID, identity.RoleAdmin)
			if err != nil {
				return err
			}
			return repos.Memberships().Create(ctx, m)
		})
		require.NoError(t, err)

		teams, err := NewGormTeamRepository(db).FindByMember(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "Alice Team", teams[0].Name)
	})

	t.Run("rolls back when a later write fails", func(t *testing.T) {
		u, err := identity.NewUser("bob@example.com", "bob", "secret123", "", "", identity.RoleMember)
		require.NoError(t, err)
		existing, err := NewGormUserRepository(db).FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		aliceTeams, err := NewGormTeamRepository(db).FindByMember(ctx, existing.ID)
		require.NoError(t, err)

		err = scope.Execute(ctx, func(repos transaction.Repositories) error {
			if err := repos.Users().Create(ctx, u); err != nil {
				return err
			}
			m, err := team.NewMembership(aliceTeams[0].ID, existing.ID, identity.RoleMember)
			if err != nil {
				return err
			}
			return repos.Memberships().Create(ctx, m)
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = NewGormUserRepository(db).FindByEmail(ctx, "bob@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
