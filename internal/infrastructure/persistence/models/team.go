package models

import (
	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/team"
)

// TeamModel is the persistence model for the Team domain entity.
type TeamModel struct {
	BaseModel
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team entity.
func (m *TeamModel) ToDomain() *team.Team {
	return &team.Team{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		CreatedBy:  m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Team entity.
func (m *TeamModel) FromDomain(t *team.Team) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.CreatedBy = t.CreatedBy
}

// TeamModelFromDomain creates a new persistence model from a domain Team entity.
func TeamModelFromDomain(t *team.Team) *TeamModel {
	m := &TeamModel{}
	m.FromDomain(t)
	return m
}

// MembershipModel is the persistence model for a team membership.
// A user holds at most one membership per team.
type MembershipModel struct {
	BaseModel
	TeamID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user,priority:1"`
	UserID uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_members_team_user,priority:2"`
	Role   identity.Role `gorm:"type:varchar(20);not null;default:'member'"`
	User   *UserModel    `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "team_members"
}

// ToDomain converts the persistence model to a domain Membership.
func (m *MembershipModel) ToDomain() *team.Membership {
	return &team.Membership{
		BaseEntity: m.BaseModel.ToDomain(),
		TeamID:     m.TeamID,
		UserID:     m.UserID,
		Role:       m.Role,
	}
}

// ToMemberDetail converts a membership with a preloaded user.
func (m *MembershipModel) ToMemberDetail() team.MemberDetail {
	detail := team.MemberDetail{Membership: *m.ToDomain()}
	if m.User != nil {
		detail.User = m.User.ToDomain()
	}
	return detail
}

// FromDomain populates the persistence model from a domain Membership.
func (m *MembershipModel) FromDomain(ms *team.Membership) {
	m.FromDomainBaseEntity(ms.BaseEntity)
	m.TeamID = ms.TeamID
	m.UserID = ms.UserID
	m.Role = ms.Role
}

// MembershipModelFromDomain creates a new persistence model from a domain Membership.
func MembershipModelFromDomain(ms *team.Membership) *MembershipModel {
	m := &MembershipModel{}
	m.FromDomain(ms)
	return m
}
