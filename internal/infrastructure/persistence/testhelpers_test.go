package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func seedUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	local := email[:len(email)-len("@example.com")]
	u, err := identity.NewUser(email, local, "secret123", "Test", local, identity.RoleMember)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedTeam(t *testing.T, db *gorm.DB, owner *identity.User, name string) *team.Team {
	t.Helper()
	ctx := context.Background()
	tm, err := team.NewTeam(name, owner.ID)
	require.NoError(t, err)
	require.NoError(t, NewGormTeamRepository(db).Create(ctx, tm))
	m, err := team.NewMembership(tm.ID, owner.ID, identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, NewGormMembershipRepository(db).Create(ctx, m))
	return tm
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
