package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	appidentity "github.com/taskflow/backend/internal/application/identity"
	appinvitation "github.com/taskflow/backend/internal/application/invitation"
	apptask "github.com/taskflow/backend/internal/application/task"
	appteam "github.com/taskflow/backend/internal/application/team"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/mail"
	"github.com/taskflow/backend/internal/infrastructure/persistence"
	"github.com/taskflow/backend/internal/interfaces/http/dto"
	"github.com/taskflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// handlerEnv wires real services over an in-memory sqlite database
type handlerEnv struct {
	auth        *appidentity.AuthService
	users       *appidentity.UserService
	teams       *appteam.TeamService
	tasks       *apptask.TaskService
	invitations *appinvitation.InvitationService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	db := database.DB
	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db)
	teamRepo := persistence.NewGormTeamRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)
	scope := persistence.NewGormTransactionScope(db)
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Expiration: 24 * time.Hour})
	authz := appidentity.NewAuthorizer(config.AuthModeTeam, membershipRepo)

	invitations := appinvitation.NewInvitationService(
		scope, persistence.NewGormInvitationRepository(db), teamRepo, membershipRepo, userRepo,
		authz, mail.NewLogSender(log), jwtService, appinvitation.Config{}, log,
	)

	return &handlerEnv{
		auth:        appidentity.NewAuthService(scope, userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), log),
		users:       appidentity.NewUserService(userRepo, membershipRepo, log),
		teams:       appteam.NewTeamService(scope, teamRepo, membershipRepo, authz, log),
		tasks:       apptask.NewTaskService(persistence.NewGormTaskRepository(db), userRepo, log),
		invitations: invitations,
	}
}

// register signs up a user through the auth service; each gets a personal team
func (e *handlerEnv) register(t *testing.T, email, firstName string) *identity.User {
	t.Helper()
	result, err := e.auth.Register(t.Context(), appidentity.RegisterInput{
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FirstName:       firstName,
		LastName:        "Tester",
	})
	require.NoError(t, err)
	return result.User
}

// asUser stands in for JWTAuth in handler tests
func asUser(user *identity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CurrentUserKey, user)
		}
		c.Next()
	}
}

func perform(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	return decode[dto.ErrorResponse](t, w)
}
