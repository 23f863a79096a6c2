package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

type authFixture struct {
	service     *AuthService
	users       *MockUserRepository
	teams       *MockTeamRepository
	memberships *MockMembershipRepository
	jwt         *auth.JWTService
	blacklist   *auth.InMemoryTokenBlacklist
}

func newAuthFixture() *authFixture {
	users := new(MockUserRepository)
	teams := new(MockTeamRepository)
	memberships := new(MockMembershipRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 24 * time.Hour,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	scope := &mockScope{users: users, teams: teams, memberships: memberships}

	return &authFixture{
		service:     NewAuthService(scope, users, jwtService, blacklist, zap.NewNop()),
		users:       users,
		teams:       teams,
		memberships: memberships,
		jwt:         jwtService,
		blacklist:   blacklist,
	}
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("alice@example.com", "alice", "secret123", "Alice", "Smith", identity.RoleMember)
	require.NoError(t, err)
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user, personal team and admin membership", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		f.users.On("ExistsByUsername", ctx, "alice_smith").Return(false, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		f.teams.On("Create", ctx, mock.MatchedBy(func(tm *team.Team) bool {
			return tm.Name == "Alice Team"
		})).Return(nil)
		f.memberships.On("Create", ctx, mock.MatchedBy(func(m *team.Membership) bool {
			return m.Role == identity.RoleAdmin
		})).Return(nil)

		result, err := f.service.Register(ctx, RegisterInput{
			Email:           "Alice@Example.com",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			FirstName:       "Alice",
			LastName:        "Smith",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", result.User.Email)
		assert.Equal(t, "alice_smith", result.User.Username)
		assert.Equal(t, identity.RoleMember, result.User.Role)
		assert.NotEmpty(t, result.Token)

		claims, err := f.jwt.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
		assert.Equal(t, "member", claims.Role)

		f.users.AssertExpectations(t)
		f.teams.AssertExpectations(t)
		f.memberships.AssertExpectations(t)
	})

	t.Run("suffixes a derived username that is taken", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "john2@example.com").Return(false, nil)
		f.users.On("ExistsByUsername", ctx, "john_doe").Return(true, nil)
		f.users.On("ExistsByUsername", ctx, "john_doe2").Return(true, nil)
		f.users.On("ExistsByUsername", ctx, "john_doe3").Return(false, nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Username == "john_doe3"
		})).Return(nil)
		f.teams.On("Create", ctx, mock.Anything).Return(nil)
		f.memberships.On("Create", ctx, mock.Anything).Return(nil)

		result, err := f.service.Register(ctx, RegisterInput{
			Email:           "john2@example.com",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			FirstName:       "John",
			LastName:        "Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "john_doe3", result.User.Username)
		f.users.AssertExpectations(t)
	})

	t.Run("keeps a chosen username as given", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "john@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(ErrUsernameTaken)

		_, err := f.service.Register(ctx, RegisterInput{
			Email:           "john@example.com",
			Username:        "johnny",
			Password:        "secret123",
			ConfirmPassword: "secret123",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.users.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
		f.teams.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects mismatched passwords", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.service.Register(ctx, RegisterInput{
			Email:           "alice@example.com",
			Password:        "secret123",
			ConfirmPassword: "secret124",
		})
		require.Error(t, err)
		assert.Equal(t, "Passwords don't match", err.Error())
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.service.Register(ctx, RegisterInput{
			Email:           "alice@example.com",
			Password:        "123",
			ConfirmPassword: "123",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(true, nil)

		_, err := f.service.Register(ctx, RegisterInput{
			Email:           "alice@example.com",
			Password:        "secret123",
			ConfirmPassword: "secret123",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, "Email already in use", err.Error())
	})

	t.Run("surfaces a failure inside the transaction", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("ExistsByEmail", ctx, "alice@example.com").Return(false, nil)
		f.users.On("ExistsByUsername", ctx, "alice").Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(nil)
		f.teams.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.Register(ctx, RegisterInput{
			Email:           "alice@example.com",
			Password:        "secret123",
			ConfirmPassword: "secret123",
		})
		assert.EqualError(t, err, "disk full")
		f.memberships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a token for valid credentials", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		f.users.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)

		result, err := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		f.users.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
		f.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err1 := f.service.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
		_, err2 := f.service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret123"})
		assert.Equal(t, ErrInvalidCredentials, err1)
		assert.Equal(t, ErrInvalidCredentials, err2)
		assert.Equal(t, "Invalid credentials", err1.Error())
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		f := newAuthFixture()
		_, _, err := f.service.Authenticate(ctx, "")
		assert.Equal(t, ErrTokenRequired, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture()
		_, _, err := f.service.Authenticate(ctx, "garbage")
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("valid token loads the user", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		token, _, err := IssueToken(f.jwt, user)
		require.NoError(t, err)
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		got, claims, err := f.service.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, claims.Email)
	})

	t.Run("token of a deleted user", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		token, _, err := IssueToken(f.jwt, user)
		require.NoError(t, err)
		f.users.On("FindByID", ctx, user.ID).Return(nil, shared.ErrNotFound)

		_, _, err = f.service.Authenticate(ctx, token)
		assert.Equal(t, ErrTokenUserMissing, err)
	})

	t.Run("revoked token after logout", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		token, _, err := IssueToken(f.jwt, user)
		require.NoError(t, err)
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		_, claims, err := f.service.Authenticate(ctx, token)
		require.NoError(t, err)
		require.NoError(t, f.service.Logout(ctx, claims))

		_, _, err = f.service.Authenticate(ctx, token)
		assert.Equal(t, ErrTokenInvalid, err)
	})
}

func TestAuthService_Logout_WithoutClaims(t *testing.T) {
	f := newAuthFixture()
	assert.NoError(t, f.service.Logout(context.Background(), nil))
	assert.NoError(t, f.service.Logout(context.Background(), &auth.Claims{UserID: uuid.NewString()}))
}
