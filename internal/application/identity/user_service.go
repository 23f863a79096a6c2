package identity

import (
	"context"

	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService serves user listing and self-service profile changes
type UserService struct {
	userRepo       identity.UserRepository
	membershipRepo team.MembershipRepository
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, membershipRepo team.MembershipRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// List returns every user, for assignee pickers
func (s *UserService) List(ctx context.Context) ([]*identity.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Current returns the user with their memberships
func (s *UserService) Current(ctx context.Context, user *identity.User) (*CurrentUser, error) {
	memberships, err := s.membershipRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: user, Memberships: memberships}, nil
}

// UpdateProfile applies name, avatar and optional password changes to user
func (s *UserService) UpdateProfile(ctx context.Context, user *identity.User, input UpdateProfileInput) (*identity.User, error) {
	if input.NewPassword != "" && input.CurrentPassword == "" {
		return nil, shared.NewValidationError("Current password is required to set a new password")
	}

	updated := *user
	if err := updated.UpdateProfile(input.FirstName, input.LastName, input.Avatar); err != nil {
		return nil, err
	}
	if input.NewPassword != "" {
		if err := updated.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Profile updated",
		zap.String("user_id", updated.ID.String()),
		zap.Bool("password_changed", input.NewPassword != ""))
	return &updated, nil
}

// MakeAdmin grants the global admin role to the user with the given email
func (s *UserService) MakeAdmin(ctx context.Context, email string) (*identity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return user, nil
	}

	user.PromoteToAdmin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("User promoted to admin", zap.String("user_id", user.ID.String()))
	return user, nil
}
