package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/task"
)

// TaskModel is the persistence model for the Task domain entity.
type TaskModel struct {
	BaseModel
	Title       string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Status      task.Status   `gorm:"type:varchar(20);not null;default:'TODO';index"`
	Priority    task.Priority `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	DueDate     *time.Time
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Creator     *UserModel `gorm:"foreignKey:CreatorID"`
	Assignee    *UserModel `gorm:"foreignKey:AssigneeID"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		BaseEntity:  m.BaseModel.ToDomain(),
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		Priority:    m.Priority,
		DueDate:     m.DueDate,
		AssigneeID:  m.AssigneeID,
		CreatorID:   m.CreatorID,
	}
}

// ToDetail converts a task with preloaded associations.
func (m *TaskModel) ToDetail() *task.Detail {
	d := &task.Detail{Task: *m.ToDomain()}
	if m.Creator != nil {
		d.Creator = m.Creator.ToDomain()
	}
	if m.Assignee != nil {
		d.Assignee = m.Assignee.ToDomain()
	}
	return d
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Title = t.Title
	m.Description = t.Description
	m.Status = t.Status
	m.Priority = t.Priority
	m.DueDate = t.DueDate
	m.AssigneeID = t.AssigneeID
	m.CreatorID = t.CreatorID
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
