package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
)

// Status is the progress state of a task. Any status may move to any other.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority ranks how urgent a task is
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// Task is a unit of work created by one user and optionally assigned to another.
type Task struct {
	shared.BaseEntity
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
	CreatorID   uuid.UUID
}

// NewTaskInput holds the fields accepted when creating a task
type NewTaskInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
	CreatorID   uuid.UUID
}

// NewTask creates a task, applying TODO and MEDIUM defaults
func NewTask(in NewTaskInput) (*Task, error) {
	if in.CreatorID == uuid.Nil {
		return nil, shared.NewValidationError("Task creator is required")
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}

	t := &Task{
		BaseEntity: shared.NewBaseEntity(),
		CreatorID:  in.CreatorID,
	}
	if err := t.setTitle(in.Title); err != nil {
		return nil, err
	}
	if err := t.setDescription(in.Description); err != nil {
		return nil, err
	}
	if err := t.setStatus(in.Status); err != nil {
		return nil, err
	}
	if err := t.setPriority(in.Priority); err != nil {
		return nil, err
	}
	t.DueDate = normalizeTime(in.DueDate)
	t.AssigneeID = normalizeID(in.AssigneeID)

	return t, nil
}

// Patch is a partial update. Nil pointers leave fields unchanged; the Clear
// flags unset the optional due date and assignee.
type Patch struct {
	Title         *string
	Description   *string
	Status        *Status
	Priority      *Priority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uuid.UUID
	ClearAssignee bool
}

// Apply merges p into the task. The task is unchanged when an error is returned.
func (t *Task) Apply(p Patch) error {
	next := *t
	if p.Title != nil {
		if err := next.setTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := next.setDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := next.setStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := next.setPriority(*p.Priority); err != nil {
			return err
		}
	}
	switch {
	case p.ClearDueDate:
		next.DueDate = nil
	case p.DueDate != nil:
		next.DueDate = normalizeTime(p.DueDate)
	}
	switch {
	case p.ClearAssignee:
		next.AssigneeID = nil
	case p.AssigneeID != nil:
		next.AssigneeID = normalizeID(p.AssigneeID)
	}

	next.Touch()
	*t = next
	return nil
}

// IsCreator reports whether userID created the task
func (t *Task) IsCreator(userID uuid.UUID) bool {
	return t.CreatorID == userID
}

// IsAssignee reports whether the task is assigned to userID
func (t *Task) IsAssignee(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// CanAccess reports whether userID may read or update the task
func (t *Task) CanAccess(userID uuid.UUID) bool {
	return t.IsCreator(userID) || t.IsAssignee(userID)
}

// IsOverdue reports whether the due date has passed and the task is not done
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != StatusDone && t.DueDate.Before(now)
}

// IsDueOn reports whether the due date falls on the same calendar day as day
func (t *Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (t *Task) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return shared.NewValidationError("Title cannot exceed 200 characters")
	}
	t.Title = title
	return nil
}

func (t *Task) setDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return shared.NewValidationError("Description cannot exceed 5000 characters")
	}
	t.Description = description
	return nil
}

func (t *Task) setStatus(s Status) error {
	if !s.IsValid() {
		return shared.NewValidationError("Status must be one of TODO, IN_PROGRESS, DONE")
	}
	t.Status = s
	return nil
}

func (t *Task) setPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewValidationError("Priority must be one of LOW, MEDIUM, HIGH, CRITICAL")
	}
	t.Priority = p
	return nil
}

func normalizeTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	u := v.UTC()
	return &u
}

func normalizeID(v *uuid.UUID) *uuid.UUID {
	if v == nil || *v == uuid.Nil {
		return nil
	}
	id := *v
	return &id
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDueDate accepts RFC 3339 timestamps, local date-times and plain dates
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, shared.NewValidationError("Invalid due date")
}

// Detail is a task joined with its creator and optional assignee.
type Detail struct {
	Task
	Creator  *identity.User
	Assignee *identity.User
}
