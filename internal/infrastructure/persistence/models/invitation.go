package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
)

// InvitationModel is the persistence model for the Invitation domain entity.
type InvitationModel struct {
	BaseModel
	Email     string        `gorm:"type:varchar(255);not null;index"`
	TeamID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	InvitedBy uuid.UUID     `gorm:"type:uuid;not null"`
	Role      identity.Role `gorm:"type:varchar(20);not null;default:'member'"`
	Token     string        `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExpiresAt time.Time     `gorm:"not null;index"`
	Accepted  bool          `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvitationModel) TableName() string {
	return "invitations"
}

// ToDomain converts the persistence model to a domain Invitation entity.
func (m *InvitationModel) ToDomain() *invitation.Invitation {
	return &invitation.Invitation{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		TeamID:     m.TeamID,
		InviterID:  m.InvitedBy,
		Role:       m.Role,
		Token:      m.Token,
		ExpiresAt:  m.ExpiresAt,
		Accepted:   m.Accepted,
	}
}

// FromDomain populates the persistence model from a domain Invitation entity.
func (m *InvitationModel) FromDomain(inv *invitation.Invitation) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Email = inv.Email
	m.TeamID = inv.TeamID
	m.InvitedBy = inv.InviterID
	m.Role = inv.Role
	m.Token = inv.Token
	m.ExpiresAt = inv.ExpiresAt
	m.Accepted = inv.Accepted
}

// InvitationModelFromDomain creates a new persistence model from a domain Invitation entity.
func InvitationModelFromDomain(inv *invitation.Invitation) *InvitationModel {
	m := &InvitationModel{}
	m.FromDomain(inv)
	return m
}
