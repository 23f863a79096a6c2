package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appidentity "github.com/taskflow/backend/internal/application/identity"
	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Messages returned for rejected team actions
const (
	msgCreateForbidden = "Only admins can create teams"
	msgDeleteForbidden = "Only team admins can delete teams"
	msgMembersOnly     = "Only team members can view members"
)

// ErrTeamNotFound is returned when a team id does not resolve
var ErrTeamNotFound = shared.NewNotFoundError("Team not found")

// TeamService handles team lifecycle and membership
type TeamService struct {
	scope          transaction.Scope
	teamRepo       team.Repository
	membershipRepo team.MembershipRepository
	authz          *appidentity.Authorizer
	logger         *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	scope transaction.Scope,
	teamRepo team.Repository,
	membershipRepo team.MembershipRepository,
	authz *appidentity.Authorizer,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		scope:          scope,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		authz:          authz,
		logger:         logger,
	}
}

// List returns the teams the user belongs to, each with its members
func (s *TeamService) List(ctx context.Context, user *identity.User) ([]*team.TeamWithMembers, error) {
	teams, err := s.teamRepo.FindByMember(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	result := make([]*team.TeamWithMembers, 0, len(teams))
	for _, t := range teams {
		members, err := s.membershipRepo.FindMembers(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &team.TeamWithMembers{Team: *t, Members: members})
	}
	return result, nil
}

// Create makes a new team with the creator as its only admin member
func (s *TeamService) Create(ctx context.Context, user *identity.User, input CreateTeamInput) (*team.Team, error) {
	allowed, err := s.authz.CanCreateTeam(ctx, user)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.NewForbiddenError(msgCreateForbidden)
	}

	created, err := team.NewTeam(input.Name, user.ID)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Teams().Create(ctx, created); err != nil {
			return err
		}
		_, err := team.AddMember(ctx, repos.Memberships(), created.ID, user.ID, identity.RoleAdmin)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Team created",
		zap.String("team_id", created.ID.String()),
		zap.String("user_id", user.ID.String()))
	return created, nil
}

// Delete removes a team together with its memberships and invitations
func (s *TeamService) Delete(ctx context.Context, user *identity.User, teamID uuid.UUID) error {
	if _, err := s.find(ctx, teamID); err != nil {
		return err
	}
	if err := s.authz.RequireTeamAdmin(ctx, user, teamID, msgDeleteForbidden); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return err
	}

	logger.L(ctx, s.logger).Info("Team deleted",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", user.ID.String()))
	return nil
}

// Members lists the members of a team the user belongs to
func (s *TeamService) Members(ctx context.Context, user *identity.User, teamID uuid.UUID) ([]team.MemberDetail, error) {
	if _, err := s.find(ctx, teamID); err != nil {
		return nil, err
	}
	isMember, err := s.membershipRepo.Exists(ctx, teamID, user.ID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, shared.NewForbiddenError(msgMembersOnly)
	}
	return s.membershipRepo.FindMembers(ctx, teamID)
}

func (s *TeamService) find(ctx context.Context, teamID uuid.UUID) (*team.Team, error) {
	t, err := s.teamRepo.FindByID(ctx, teamID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrTeamNotFound
	}
	return t, err
}
