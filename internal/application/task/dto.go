package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/task"
)

// CreateTaskInput carries the fields of a new task.
// Empty status and priority fall back to TODO and MEDIUM.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      task.Status
	Priority    task.Priority
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
}
