package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinvitation "github.com/taskflow/backend/internal/application/invitation"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateInvitationRequest represents a request to invite someone to a team.
// TeamID is optional and defaults to the inviter's first administered team.
type CreateInvitationRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role"`
	TeamID string `json:"teamId"`
}

// AcceptInvitationRequest carries the account fields for a new invitee.
// Existing users send only their current password.
type AcceptInvitationRequest struct {
	FirstName       string `json:"firstName" binding:"max=100"`
	LastName        string `json:"lastName" binding:"max=100"`
	Username        string `json:"username" binding:"max=100"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// CreateInvitationResponse is returned after an invitation is stored
type CreateInvitationResponse struct {
	Message    string             `json:"message"`
	InviteLink string             `json:"inviteLink"`
	Invitation InvitationResponse `json:"invitation"`
}

// InvitationPreviewResponse is the public view of an invitation
type InvitationPreviewResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TeamName  string    `json:"teamName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvitationHandler handles team invitations
type InvitationHandler struct {
	BaseHandler
	invitationService *appinvitation.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *appinvitation.InvitationService, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		BaseHandler:       BaseHandler{logger: logger},
		invitationService: invitationService,
	}
}

// Create invites an email address to a team
func (h *InvitationHandler) Create(c *gin.Context) {
	var req CreateInvitationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, ok := identity.ParseRole(req.Role)
	if !ok {
		h.HandleError(c, shared.NewValidationError("Role must be admin or member"))
		return
	}
	input := appinvitation.CreateInvitationInput{Email: req.Email, Role: role}
	if v := strings.TrimSpace(req.TeamID); v != "" {
		teamID, err := uuid.Parse(v)
		if err != nil {
			h.HandleError(c, shared.NewValidationError("Invalid team id"))
			return
		}
		input.TeamID = &teamID
	}

	created, err := h.invitationService.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CreateInvitationResponse{
		Message:    "Invitation sent successfully",
		InviteLink: created.InviteLink,
		Invitation: toInvitationResponse(created.Invitation),
	})
}

// Pending lists unexpired invitations of the teams the user administers
func (h *InvitationHandler) Pending(c *gin.Context) {
	invitations, err := h.invitationService.ListPending(c.Request.Context(), currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		out[i] = toInvitationResponse(inv)
	}
	h.Success(c, out)
}

// Resend re-dispatches the invitation email
func (h *InvitationHandler) Resend(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", appinvitation.ErrInvitationNotFound.Message)
	if !ok {
		return
	}

	if _, err := h.invitationService.Resend(c.Request.Context(), currentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Invitation resent successfully")
}

// Revoke deletes a pending invitation
func (h *InvitationHandler) Revoke(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", appinvitation.ErrInvitationNotFound.Message)
	if !ok {
		return
	}

	if err := h.invitationService.Revoke(c.Request.Context(), currentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Invitation revoked successfully")
}

// Verify shows who an invitation is for without consuming it
func (h *InvitationHandler) Verify(c *gin.Context) {
	preview, err := h.invitationService.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, InvitationPreviewResponse{
		Email:     preview.Email,
		Role:      preview.Role.String(),
		TeamName:  preview.TeamName,
		ExpiresAt: preview.ExpiresAt,
	})
}

// Accept consumes an invitation, creating the account when needed
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req AcceptInvitationRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	result, err := h.invitationService.Accept(c.Request.Context(), c.Param("token"), appinvitation.AcceptInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthResponse("Invitation accepted successfully", result))
}
