package invitation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	appidentity "github.com/taskflow/backend/internal/application/identity"
	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// Errors returned by invitation operations
var (
	ErrInvitationNotFound = shared.NewNotFoundError("Invitation not found")
	ErrSendForbidden      = shared.NewForbiddenError("Only team admins can send invitations")
	ErrViewForbidden      = shared.NewForbiddenError("Only team admins can view invitations")
	ErrManageForbidden    = shared.NewForbiddenError("Only team admins can manage invitations")
)

// Config holds invitation settings
type Config struct {
	// PublicURL is the SPA origin prefixed to accept links in emails
	PublicURL string
	TTL       time.Duration
}

// InvitationService creates, delivers and redeems team invitations
type InvitationService struct {
	scope          transaction.Scope
	invitationRepo invitation.Repository
	teamRepo       team.Repository
	membershipRepo team.MembershipRepository
	userRepo       identity.UserRepository
	authz          *appidentity.Authorizer
	mailer         mail.Sender
	jwtService     *auth.JWTService
	cfg            Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(
	scope transaction.Scope,
	invitationRepo invitation.Repository,
	teamRepo team.Repository,
	membershipRepo team.MembershipRepository,
	userRepo identity.UserRepository,
	authz *appidentity.Authorizer,
	mailer mail.Sender,
	jwtService *auth.JWTService,
	cfg Config,
	logger *zap.Logger,
) *InvitationService {
	if cfg.TTL <= 0 {
		cfg.TTL = invitation.DefaultTTL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &InvitationService{
		scope:          scope,
		invitationRepo: invitationRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		authz:          authz,
		mailer:         mailer,
		jwtService:     jwtService,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock replaces the clock used for expiry checks
func (s *InvitationService) WithClock(now func() time.Time) *InvitationService {
	s.now = now
	return s
}

// Create invites an email address to a team the inviter administers
func (s *InvitationService) Create(ctx context.Context, inviter *identity.User, input CreateInvitationInput) (*CreatedInvitation, error) {
	teamID, err := s.targetTeam(ctx, inviter, input.TeamID)
	if err != nil {
		return nil, err
	}
	target, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Team not found")
		}
		return nil, err
	}

	inv, err := invitation.New(input.Email, teamID, inviter.ID, input.Role, s.cfg.TTL)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, inv.Email)
	switch {
	case err == nil:
		member, err := s.membershipRepo.Exists(ctx, teamID, existing.ID)
		if err != nil {
			return nil, err
		}
		if member {
			return nil, team.ErrAlreadyMember
		}
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Invitation created",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("team_id", teamID.String()),
		zap.String("inviter_id", inviter.ID.String()))

	s.deliver(ctx, inv, inviter, target)
	return &CreatedInvitation{Invitation: inv, InviteLink: inv.AcceptLink()}, nil
}

// ListPending returns unexpired invitations of every team the user administers, newest first
func (s *InvitationService) ListPending(ctx context.Context, user *identity.User) ([]*invitation.Invitation, error) {
	teamIDs, err := s.authz.AdminTeamIDs(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(teamIDs) == 0 {
		return nil, ErrViewForbidden
	}
	return s.invitationRepo.FindPending(ctx, teamIDs, s.now())
}

// Resend delivers the invitation email again with the same token and expiry
func (s *InvitationService) Resend(ctx context.Context, user *identity.User, id uuid.UUID) (*invitation.Invitation, error) {
	inv, err := s.managed(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if inv.IsExpired(s.now()) {
		return nil, invitation.ErrExpired
	}
	target, err := s.teamRepo.FindByID(ctx, inv.TeamID)
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, inv, user, target)
	logger.L(ctx, s.logger).Info("Invitation resent", zap.String("invitation_id", inv.ID.String()))
	return inv, nil
}

// Revoke deletes an invitation
func (s *InvitationService) Revoke(ctx context.Context, user *identity.User, id uuid.UUID) error {
	inv, err := s.managed(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	logger.L(ctx, s.logger).Info("Invitation revoked",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("user_id", user.ID.String()))
	return nil
}

// Verify describes an open invitation without consuming it
func (s *InvitationService) Verify(ctx context.Context, token string) (*Preview, error) {
	inv, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}
	target, err := s.teamRepo.FindByID(ctx, inv.TeamID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invitation.ErrInvalidToken
		}
		return nil, err
	}
	return &Preview{
		Email:     inv.Email,
		Role:      inv.Role,
		TeamName:  target.Name,
		ExpiresAt: inv.ExpiresAt,
	}, nil
}

// Accept redeems an invitation token.
// The invitee's account is created when the email is unknown. An existing
// account must prove ownership with its current password; a wrong or missing
// password fails with ErrInvalidCredentials and leaves the invitation intact.
// Membership creation and invitation deletion happen in one transaction.
func (s *InvitationService) Accept(ctx context.Context, token string, input AcceptInput) (*appidentity.AuthResult, error) {
	inv, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}

	var user *identity.User
	created := false
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		user, err = repos.Users().FindByEmail(ctx, inv.Email)
		switch {
		case err == nil:
			if input.Password == "" || !user.VerifyPassword(input.Password) {
				return appidentity.ErrInvalidCredentials
			}
		case errors.Is(err, shared.ErrNotFound):
			if user, err = newInvitee(ctx, repos.Users(), inv, input); err != nil {
				return err
			}
			if err := repos.Users().Create(ctx, user); err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		if _, err := team.AddMember(ctx, repos.Memberships(), inv.TeamID, user.ID, inv.Role); err != nil {
			return err
		}
		return repos.Invitations().Delete(ctx, inv.ID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// accepted concurrently
			return nil, invitation.ErrInvalidToken
		}
		return nil, err
	}

	authToken, expiresAt, err := appidentity.IssueToken(s.jwtService, user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("team_id", inv.TeamID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Bool("new_user", created))
	return &appidentity.AuthResult{User: user, Token: authToken, ExpiresAt: expiresAt}, nil
}

// PurgeExpired deletes every invitation past its expiry and returns how many were removed
func (s *InvitationService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.invitationRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	logger.L(ctx, s.logger).Info("Expired invitations purged", zap.Int64("count", n))
	return n, nil
}

func (s *InvitationService) targetTeam(ctx context.Context, inviter *identity.User, requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil && *requested != uuid.Nil {
		ok, err := s.authz.IsTeamAdmin(ctx, inviter, *requested)
		if err != nil {
			return uuid.Nil, err
		}
		if !ok {
			return uuid.Nil, ErrSendForbidden
		}
		return *requested, nil
	}

	teamIDs, err := s.authz.AdminTeamIDs(ctx, inviter)
	if err != nil {
		return uuid.Nil, err
	}
	if len(teamIDs) == 0 {
		return uuid.Nil, ErrSendForbidden
	}
	return teamIDs[0], nil
}

// managed loads an invitation the user may administer
func (s *InvitationService) managed(ctx context.Context, user *identity.User, id uuid.UUID) (*invitation.Invitation, error) {
	inv, err := s.invitationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if err := s.authz.RequireTeamAdmin(ctx, user, inv.TeamID, ErrManageForbidden.Message); err != nil {
		return nil, err
	}
	return inv, nil
}

// open loads an invitation by token and rejects expired ones
func (s *InvitationService) open(ctx context.Context, token string) (*invitation.Invitation, error) {
	inv, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invitation.ErrInvalidToken
		}
		return nil, err
	}
	if inv.IsExpired(s.now()) {
		return nil, invitation.ErrExpired
	}
	return inv, nil
}

// deliver sends the invitation email; failures are logged only
func (s *InvitationService) deliver(ctx context.Context, inv *invitation.Invitation, inviter *identity.User, target *team.Team) {
	msg, err := mail.InvitationMessage(inv.Email, mail.InvitationData{
		InviterName: inviter.FullName(),
		TeamName:    target.Name,
		Role:        inv.Role.String(),
		AcceptURL:   s.cfg.PublicURL + inv.AcceptLink(),
		ExpiresOn:   inv.ExpiresAt.Format("January 2, 2006 15:04 MST"),
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.L(ctx, s.logger).Error("Failed to send invitation email",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err))
	}
}

func newInvitee(ctx context.Context, users identity.UserRepository, inv *invitation.Invitation, input AcceptInput) (*identity.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, shared.NewValidationError("Passwords don't match")
	}
	username := input.Username
	if username == "" {
		username = identity.SuggestUsername(input.FirstName, input.LastName, inv.Email)
	}
	user, err := identity.NewUser(inv.Email, username, input.Password, input.FirstName, input.LastName, inv.Role)
	if err != nil {
		return nil, err
	}
	if input.Username == "" {
		if user.Username, err = appidentity.AvailableUsername(ctx, users, user.Username); err != nil {
			return nil, err
		}
	}
	return user, nil
}
