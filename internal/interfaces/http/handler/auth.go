package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/taskflow/backend/internal/application/identity"
	"github.com/taskflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	userService *identity.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, userService *identity.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger},
		authService: authService,
		userService: userService,
	}
}

// Register creates an account with a personal team and signs the user in
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Username:        req.Username,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAuthResponse("", result))
}

// Login authenticates by email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthResponse("", result))
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out successfully")
}

// Me returns the authenticated user and their memberships
func (h *AuthHandler) Me(c *gin.Context) {
	current, err := h.userService.Current(c.Request.Context(), currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	memberships := make([]MembershipResponse, len(current.Memberships))
	for i, m := range current.Memberships {
		memberships[i] = toMembershipResponse(m)
	}
	h.Success(c, MeResponse{
		User:        toUserResponse(current.User),
		Memberships: memberships,
	})
}
