package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appidentity "github.com/taskflow/backend/internal/application/identity"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/infrastructure/auth"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	CurrentUserKey = "current_user"
	JWTClaimsKey   = "jwt_claims"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// Authenticator resolves a bearer token to the authenticated user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.User, *auth.Claims, error)
}

// JWTAuth requires a valid bearer token and stores the user and claims on the context
func JWTAuth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)

		user, claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			handleAuthError(c, err, log)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(JWTClaimsKey, claims)

		ctx := c.Request.Context()
		ctx, userLogger := logger.WithUserID(ctx, logger.L(ctx, log), user.ID.String())
		c.Request = c.Request.WithContext(logger.WithContext(ctx, userLogger))

		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

func handleAuthError(c *gin.Context, err error, log *zap.Logger) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		log.Error("Authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(shared.CodeInternal, "Internal server error", RequestIDFrom(c)))
		return
	}

	log.Debug("Authentication rejected",
		zap.String("reason", domainErr.Message),
		zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code),
		dto.NewErrorResponse(domainErr.Code, domainErr.Message, RequestIDFrom(c)))
}

// GetCurrentUser returns the authenticated user, or nil outside JWTAuth
func GetCurrentUser(c *gin.Context) *identity.User {
	if v, exists := c.Get(CurrentUserKey); exists {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

var _ Authenticator = (*appidentity.AuthService)(nil)
