package task

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a task listing
type Filter struct {
	Status     *Status
	Priority   *Priority
	AssigneeID *uuid.UUID
}

// Repository persists tasks
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindDetail loads a task joined with creator and assignee
	FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	// FindVisible lists tasks created by or assigned to userID, newest first
	FindVisible(ctx context.Context, userID uuid.UUID, filter Filter) ([]*Detail, error)
	// FindVisibleTasks is FindVisible without joins, used for aggregation
	FindVisibleTasks(ctx context.Context, userID uuid.UUID) ([]*Task, error)
}
