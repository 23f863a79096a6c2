package handler

import (
	"github.com/gin-gonic/gin"
	appteam "github.com/taskflow/backend/internal/application/team"
	"go.uber.org/zap"
)

// CreateTeamRequest represents a request to create a team
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// TeamHandler handles teams and their members
type TeamHandler struct {
	BaseHandler
	teamService *appteam.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *appteam.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		BaseHandler: BaseHandler{logger: logger},
		teamService: teamService,
	}
}

// List returns the teams the user belongs to, with members
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TeamResponse, len(teams))
	for i, t := range teams {
		out[i] = toTeamResponse(&t.Team)
		out[i].Members = toMemberResponses(t.Members)
	}
	h.Success(c, out)
}

// Create makes a new team with the current user as its admin
func (h *TeamHandler) Create(c *gin.Context) {
	var req CreateTeamRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.teamService.Create(c.Request.Context(), currentUser(c), appteam.CreateTeamInput{Name: req.Name})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTeamResponse(t))
}

// Delete removes a team together with its memberships and invitations
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", appteam.ErrTeamNotFound.Message)
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Team deleted successfully")
}

// Members lists a team's members
func (h *TeamHandler) Members(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", appteam.ErrTeamNotFound.Message)
	if !ok {
		return
	}

	members, err := h.teamService.Members(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMemberResponses(members))
}
