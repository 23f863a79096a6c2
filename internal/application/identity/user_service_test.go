package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"go.uber.org/zap"
)

func TestUserService_Current(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	memberships := new(MockMembershipRepository)
	svc := NewUserService(users, memberships, zap.NewNop())

	user := newTestUser(t)
	m, err := team.NewMembership(uuid.New(), user.ID, identity.RoleAdmin)
	require.NoError(t, err)
	memberships.On("FindByUser", ctx, user.ID).Return([]*team.Membership{m}, nil)

	current, err := svc.Current(ctx, user)
	require.NoError(t, err)
	assert.Same(t, user, current.User)
	require.Len(t, current.Memberships, 1)
	assert.Equal(t, m.TeamID, current.Memberships[0].TeamID)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates names and keeps blank fields", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		user := newTestUser(t)
		users.On("Update", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		updated, err := svc.UpdateProfile(ctx, user, UpdateProfileInput{FirstName: "Alicia"})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.FirstName)
		assert.Equal(t, "Smith", updated.LastName)
		assert.Equal(t, "Alice", user.FirstName, "caller's copy is untouched")
	})

	t.Run("changes the password with the current one", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		user := newTestUser(t)
		users.On("Update", ctx, mock.Anything).Return(nil)

		updated, err := svc.UpdateProfile(ctx, user, UpdateProfileInput{
			CurrentPassword: "secret123",
			NewPassword:     "newsecret456",
		})
		require.NoError(t, err)
		assert.True(t, updated.VerifyPassword("newsecret456"))
		assert.False(t, updated.VerifyPassword("secret123"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		user := newTestUser(t)

		_, err := svc.UpdateProfile(ctx, user, UpdateProfileInput{
			CurrentPassword: "nope-nope",
			NewPassword:     "newsecret456",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeIncorrectPassword, domainErr.Code)
		assert.Equal(t, "Current password is incorrect", domainErr.Message)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new password without current password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())

		_, err := svc.UpdateProfile(ctx, newTestUser(t), UpdateProfileInput{NewPassword: "newsecret456"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUserService_MakeAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes a member", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		user := newTestUser(t)
		users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		users.On("Update", ctx, user).Return(nil)

		got, err := svc.MakeAdmin(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, got.IsAdmin())
		users.AssertExpectations(t)
	})

	t.Run("already admin is a no-op", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		user := newTestUser(t)
		user.PromoteToAdmin()
		users.On("FindByEmail", ctx, user.Email).Return(user, nil)

		_, err := svc.MakeAdmin(ctx, user.Email)
		require.NoError(t, err)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, new(MockMembershipRepository), zap.NewNop())
		users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.MakeAdmin(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
