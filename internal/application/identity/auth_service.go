package identity

import (
	"context"
	"errors"
	"time"

	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Authentication errors surfaced to HTTP clients
var (
	ErrInvalidCredentials = shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid credentials")
	ErrTokenRequired      = shared.NewDomainError(shared.CodeUnauthorized, "Access token required")
	ErrTokenInvalid       = shared.NewDomainError(shared.CodeForbidden, "Invalid or expired token")
	ErrTokenUserMissing   = shared.NewDomainError(shared.CodeUnauthorized, "Invalid token")
)

// AuthService handles registration, login, token authentication and logout
type AuthService struct {
	scope      transaction.Scope
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	scope transaction.Scope,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		scope:      scope,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a member account together with a personal team the user administers
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, shared.NewValidationError("Passwords don't match")
	}

	derived := input.Username == ""
	username := input.Username
	if derived {
		username = identity.SuggestUsername(input.FirstName, input.LastName, input.Email)
	}

	user, err := identity.NewUser(input.Email, username, input.Password, input.FirstName, input.LastName, identity.RoleMember)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("Email already in use")
	}

	// a chosen username keeps the unique-constraint 409; a derived one gets a suffix
	if derived {
		if user.Username, err = AvailableUsername(ctx, s.userRepo, user.Username); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Users().Create(ctx, user); err != nil {
			return err
		}
		personal, err := team.NewTeam(team.PersonalTeamName(user.FirstName), user.ID)
		if err != nil {
			return err
		}
		if err := repos.Teams().Create(ctx, personal); err != nil {
			return err
		}
		_, err = team.AddMember(ctx, repos.Memberships(), personal.ID, user.ID, identity.RoleAdmin)
		return err
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := IssueToken(s.jwtService, user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies email and password. Every failure yields the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			logger.L(ctx, s.logger).Warn("Login for unknown email", zap.String("email", input.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		logger.L(ctx, s.logger).Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := IssueToken(s.jwtService, user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("User logged in", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to its user.
// A missing token and a deleted user yield 401-class errors; a bad, expired or
// revoked token yields ErrTokenInvalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.User, *auth.Claims, error) {
	if token == "" {
		return nil, nil, ErrTokenRequired
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// fail open
			logger.L(ctx, s.logger).Warn("Token blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, nil, ErrTokenInvalid
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, ErrTokenUserMissing
		}
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes the token identified by claims until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL(time.Now())
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return err
	}
	logger.L(ctx, s.logger).Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}
