// Package bootstrap wires repositories and application services together.
// It is shared by the API server, the operator CLI and integration tests.
package bootstrap

import (
	appidentity "github.com/taskflow/backend/internal/application/identity"
	appinvitation "github.com/taskflow/backend/internal/application/invitation"
	apptask "github.com/taskflow/backend/internal/application/task"
	appteam "github.com/taskflow/backend/internal/application/team"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/mail"
	"github.com/taskflow/backend/internal/infrastructure/persistence"
	"github.com/taskflow/backend/internal/interfaces/http/handler"
	"github.com/taskflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces the services are built from
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Blacklist auth.TokenBlacklist
	Mailer    mail.Sender
	Logger    *zap.Logger
}

// Services holds every application service
type Services struct {
	JWT         *auth.JWTService
	Authorizer  *appidentity.Authorizer
	Auth        *appidentity.AuthService
	Users       *appidentity.UserService
	Teams       *appteam.TeamService
	Tasks       *apptask.TaskService
	Invitations *appinvitation.InvitationService
}

// NewServices builds the repositories and services on top of deps.
// A nil Blacklist falls back to an in-memory one and a nil Mailer logs messages.
func NewServices(deps Deps) *Services {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	blacklist := deps.Blacklist
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewLogSender(log)
	}
	cfg := deps.Config

	userRepo := persistence.NewGormUserRepository(deps.DB)
	teamRepo := persistence.NewGormTeamRepository(deps.DB)
	membershipRepo := persistence.NewGormMembershipRepository(deps.DB)
	taskRepo := persistence.NewGormTaskRepository(deps.DB)
	invitationRepo := persistence.NewGormInvitationRepository(deps.DB)
	scope := persistence.NewGormTransactionScope(deps.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authz := appidentity.NewAuthorizer(cfg.Auth.Mode, membershipRepo)

	invitations := appinvitation.NewInvitationService(
		scope, invitationRepo, teamRepo, membershipRepo, userRepo, authz, mailer, jwtService,
		appinvitation.Config{PublicURL: cfg.App.PublicURL, TTL: cfg.Auth.InvitationTTL},
		log,
	)

	return &Services{
		JWT:         jwtService,
		Authorizer:  authz,
		Auth:        appidentity.NewAuthService(scope, userRepo, jwtService, blacklist, log),
		Users:       appidentity.NewUserService(userRepo, membershipRepo, log),
		Teams:       appteam.NewTeamService(scope, teamRepo, membershipRepo, authz, log),
		Tasks:       apptask.NewTaskService(taskRepo, userRepo, log),
		Invitations: invitations,
	}
}

// Handlers builds the HTTP handlers for s. db may be nil to skip the health ping.
func (s *Services) Handlers(db handler.Pinger, version string, log *zap.Logger) router.Handlers {
	return router.Handlers{
		Auth:       handler.NewAuthHandler(s.Auth, s.Users, log),
		User:       handler.NewUserHandler(s.Users, log),
		Task:       handler.NewTaskHandler(s.Tasks, log),
		Team:       handler.NewTeamHandler(s.Teams, log),
		Invitation: handler.NewInvitationHandler(s.Invitations, log),
		System:     handler.NewSystemHandler(db, version, log),
	}
}
