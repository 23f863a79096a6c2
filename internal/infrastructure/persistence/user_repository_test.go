package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByEmail_Query(t *testing.T) {
	t.Run("lowercases the lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "email", "username", "password", "role"}).
			AddRow("0b7c2f2a-4f0e-4d8c-9a55-3d7c0e8f9b11", "alice@example.com", "alice", "hash", "member")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("alice@example.com", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), "Alice@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = \$1`).
			WithArgs("ghost@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty email short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		_, err := repo.FindByEmail(context.Background(), "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")

	t.Run("finds by id, email and username", func(t *testing.T) {
		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
		assert.True(t, found.VerifyPassword("secret123"))

		found, err = repo.FindByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		found, err = repo.FindByUsername(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("alice@example.com", "alice2", "secret123", "", "", identity.RoleMember)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, "Email already in use", err.Error())
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		dup, err := identity.NewUser("other@example.com", "alice", "secret123", "", "", identity.RoleMember)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.Equal(t, "Username already in use", err.Error())
	})

	t.Run("updates role and profile", func(t *testing.T) {
		alice.PromoteToAdmin()
		require.NoError(t, alice.UpdateProfile("Alice", "Liddell", ""))
		require.NoError(t, repo.Update(ctx, alice))

		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, found.Role)
		assert.Equal(t, "Liddell", found.LastName)
	})

	t.Run("exists checks ignore case", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("lists all users", func(t *testing.T) {
		seedUser(t, db, "bob@example.com")
		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
