package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/domain/team"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockTeamRepository is a mock implementation of team.Repository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, t *team.Team) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*team.Team, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*team.Team), args.Error(1)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of team.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, ms *team.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMembershipRepository) Find(ctx context.Context, teamID, userID uuid.UUID) (*team.Membership, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*team.Membership, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*team.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindMembers(ctx context.Context, teamID uuid.UUID) ([]team.MemberDetail, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]team.MemberDetail), args.Error(1)
}

func (m *MockMembershipRepository) Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

// mockScope runs the unit of work directly against the mock repositories
type mockScope struct {
	users       *MockUserRepository
	teams       *MockTeamRepository
	memberships *MockMembershipRepository
}

func (s *mockScope) Execute(_ context.Context, fn func(repos transaction.Repositories) error) error {
	return fn(s)
}

func (s *mockScope) Users() identity.UserRepository { return s.users }
func (s *mockScope) Teams() team.Repository { return s.teams }
func (s *mockScope) Memberships() team.MembershipRepository { return s.memberships }
func (s *mockScope) Tasks() task.Repository { return nil }
func (s *mockScope) Invitations() invitation.Repository { return nil }
