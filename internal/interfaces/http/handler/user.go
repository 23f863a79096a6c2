package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/taskflow/backend/internal/application/identity"
	"go.uber.org/zap"
)

// UserHandler handles user listing and profile updates
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{logger: logger},
		userService: userService,
	}
}

// List returns every user as a summary, for assignee pickers
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]*UserSummary, len(users))
	for i, u := range users {
		out[i] = toUserSummary(u)
	}
	h.Success(c, out)
}

// UpdateProfile changes the current user's names, avatar or password
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUser(c), identity.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Avatar:          req.Avatar,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}
