package handler

import (
	"time"

	"github.com/google/uuid"
	appidentity "github.com/taskflow/backend/internal/application/identity"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/domain/team"
)

// UserResponse is the public view of a user; the password hash is never included
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the compact user view embedded in tasks and teams
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Avatar    *string   `json:"avatar"`
}

// MembershipResponse is a membership of the current user
type MembershipResponse struct {
	ID       uuid.UUID `json:"id"`
	TeamID   uuid.UUID `json:"teamId"`
	UserID   uuid.UUID `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MemberResponse is a team member with their user summary
type MemberResponse struct {
	MembershipResponse
	User *UserSummary `json:"user"`
}

// TeamResponse is a team, optionally with its members
type TeamResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	CreatedBy uuid.UUID        `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Members   []MemberResponse `json:"members,omitempty"`
}

// TaskResponse is a task joined with creator and assignee summaries
type TaskResponse struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	AssigneeID  *uuid.UUID   `json:"assigneeId"`
	CreatorID   uuid.UUID    `json:"creatorId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Creator     *UserSummary `json:"creator"`
	Assignee    *UserSummary `json:"assignee"`
}

// StatsResponse summarizes the caller's tasks
type StatsResponse struct {
	Total          int            `json:"total"`
	Todo           int            `json:"todo"`
	InProgress     int            `json:"inProgress"`
	Completed      int            `json:"completed"`
	Overdue        int            `json:"overdue"`
	DueToday       int            `json:"dueToday"`
	AssignedToMe   int            `json:"assignedToMe"`
	CreatedByMe    int            `json:"createdByMe"`
	ByPriority     map[string]int `json:"byPriority"`
	CompletionRate int            `json:"completionRate"`
}

// InvitationResponse is an invitation as seen by team admins
type InvitationResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	TeamID    uuid.UUID `json:"teamId"`
	InvitedBy uuid.UUID `json:"invitedBy"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register, login and invitation accept
type AuthResponse struct {
	Message   string       `json:"message,omitempty"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		Avatar:    optional(u.Avatar),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserSummary(u *identity.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    optional(u.Avatar),
	}
}

func toMembershipResponse(m *team.Membership) MembershipResponse {
	return MembershipResponse{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     m.Role.String(),
		JoinedAt: m.CreatedAt,
	}
}

func toMemberResponses(members []team.MemberDetail) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = MemberResponse{
			MembershipResponse: toMembershipResponse(&members[i].Membership),
			User:               toUserSummary(members[i].User),
		}
	}
	return out
}

func toTeamResponse(t *team.Team) TeamResponse {
	return TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTaskResponse(d *task.Detail) TaskResponse {
	return TaskResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
		DueDate:     d.DueDate,
		AssigneeID:  d.AssigneeID,
		CreatorID:   d.CreatorID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Creator:     toUserSummary(d.Creator),
		Assignee:    toUserSummary(d.Assignee),
	}
}

func toStatsResponse(s task.Stats) StatsResponse {
	byPriority := make(map[string]int, len(s.ByPriority))
	for p, n := range s.ByPriority {
		byPriority[string(p)] = n
	}
	return StatsResponse{
		Total:          s.Total,
		Todo:           s.Todo,
		InProgress:     s.InProgress,
		Completed:      s.Completed,
		Overdue:        s.Overdue,
		DueToday:       s.DueToday,
		AssignedToMe:   s.AssignedToMe,
		CreatedByMe:    s.CreatedByMe,
		ByPriority:     byPriority,
		CompletionRate: s.CompletionRate,
	}
}

func toInvitationResponse(i *invitation.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        i.ID,
		Email:     i.Email,
		TeamID:    i.TeamID,
		InvitedBy: i.InviterID,
		Role:      i.Role.String(),
		Token:     i.Token,
		ExpiresAt: i.ExpiresAt,
		Accepted:  i.Accepted,
		CreatedAt: i.CreatedAt,
	}
}

func toAuthResponse(message string, r *appidentity.AuthResult) AuthResponse {
	return AuthResponse{
		Message:   message,
		User:      toUserResponse(r.User),
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}
}
