package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"github.com/taskflow/backend/internal/interfaces/http/dto"
	"github.com/taskflow/backend/internal/interfaces/http/handler"
	"github.com/taskflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served under /api
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Task       *handler.TaskHandler
	Team       *handler.TeamHandler
	Invitation *handler.InvitationHandler
	System     *handler.SystemHandler
}

// Options configures the engine built by NewEngine
type Options struct {
	Authenticator  middleware.Authenticator
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
	// AuthLimiter throttles register and login per client IP; nil disables it
	AuthLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain and every API route.
// Middleware order: request ID, recovery, request logging, security headers, CORS, body limit.
// An unparsable trusted proxy entry is an error since it would change ClientIP and the rate limit keys.
func NewEngine(h Handlers, opts Options) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/api/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(shared.CodeNotFound, "Route not found", middleware.RequestIDFrom(c)))
	})

	r := NewRouter(engine)
	r.Register(systemRoutes(h.System))
	r.Register(authRoutes(h.Auth, opts))
	r.Register(userRoutes(h.User, opts))
	r.Register(taskRoutes(h.Task, opts))
	r.Register(teamRoutes(h.Team, opts))
	r.Register(invitationRoutes(h.Invitation, opts))
	r.Setup()

	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}
	return engine, nil
}

func requireAuth(opts Options) gin.HandlerFunc {
	return middleware.JWTAuth(opts.Authenticator, opts.Logger)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "").GET("/health", h.Health)
}

func authRoutes(h *handler.AuthHandler, opts Options) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")

	public := g.Group("auth-public", "")
	if opts.AuthLimiter != nil {
		public.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	g.Group("auth-session", "").
		Use(requireAuth(opts)).
		POST("/logout", h.Logout).
		GET("/me", h.Me)
	return g
}

func userRoutes(h *handler.UserHandler, opts Options) *DomainGroup {
	return NewDomainGroup("users", "/users").
		Use(requireAuth(opts)).
		GET("", h.List).
		PATCH("/profile", h.UpdateProfile)
}

func taskRoutes(h *handler.TaskHandler, opts Options) *DomainGroup {
	return NewDomainGroup("tasks", "/tasks").
		Use(requireAuth(opts)).
		GET("", h.List).
		GET("/stats", h.Stats).
		GET("/:id", h.Get).
		POST("", h.Create).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func teamRoutes(h *handler.TeamHandler, opts Options) *DomainGroup {
	return NewDomainGroup("teams", "/teams").
		Use(requireAuth(opts)).
		GET("", h.List).
		POST("", h.Create).
		DELETE("/:id", h.Delete).
		GET("/:id/members", h.Members)
}

func invitationRoutes(h *handler.InvitationHandler, opts Options) *DomainGroup {
	g := NewDomainGroup("invitations", "/invitations")

	public := g.Group("invitations-public", "")
	if opts.AuthLimiter != nil {
		public.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	public.GET("/verify/:token", h.Verify)
	public.POST("/accept/:token", h.Accept)

	g.Group("invitations-admin", "").
		Use(requireAuth(opts)).
		POST("", h.Create).
		GET("/pending", h.Pending).
		POST("/:id/resend", h.Resend).
		DELETE("/:id", h.Revoke)
	return g
}
