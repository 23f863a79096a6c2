package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Errors returned by task operations
var (
	ErrTaskNotFound     = shared.NewNotFoundError("Task not found")
	ErrAssigneeNotFound = shared.NewValidationError("Assignee not found")
	ErrViewForbidden    = shared.NewForbiddenError("You don't have permission to view this task")
	ErrUpdateForbidden  = shared.NewForbiddenError("You don't have permission to update this task")
	ErrDeleteForbidden  = shared.NewForbiddenError("Only the task creator can delete this task")
)

// TaskService manages tasks visible to their creator and assignee
type TaskService struct {
	taskRepo task.Repository
	userRepo identity.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo task.Repository, userRepo identity.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for statistics
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Create stores a new task created by user and returns it with creator and assignee
func (s *TaskService) Create(ctx context.Context, user *identity.User, input CreateTaskInput) (*task.Detail, error) {
	if err := s.ensureAssignee(ctx, input.AssigneeID); err != nil {
		return nil, err
	}

	t, err := task.NewTask(task.NewTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatorID:   user.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("user_id", user.ID.String()))
	return s.detail(ctx, t.ID)
}

// Get returns a task the user created or is assigned to
func (s *TaskService) Get(ctx context.Context, user *identity.User, id uuid.UUID) (*task.Detail, error) {
	d, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.CanAccess(user.ID) {
		return nil, ErrViewForbidden
	}
	return d, nil
}

// Update merges patch into a task the user created or is assigned to
func (s *TaskService) Update(ctx context.Context, user *identity.User, id uuid.UUID, patch task.Patch) (*task.Detail, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.CanAccess(user.ID) {
		return nil, ErrUpdateForbidden
	}
	if !patch.ClearAssignee {
		if err := s.ensureAssignee(ctx, patch.AssigneeID); err != nil {
			return nil, err
		}
	}

	if err := t.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Task updated",
		zap.String("task_id", t.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(t.Status)))
	return s.detail(ctx, t.ID)
}

// Delete removes a task; only its creator may do so
func (s *TaskService) Delete(ctx context.Context, user *identity.User, id uuid.UUID) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !t.IsCreator(user.ID) {
		return ErrDeleteForbidden
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	logger.L(ctx, s.logger).Info("Task deleted",
		zap.String("task_id", id.String()),
		zap.String("user_id", user.ID.String()))
	return nil
}

// List returns the tasks visible to user, newest first
func (s *TaskService) List(ctx context.Context, user *identity.User, filter task.Filter) ([]*task.Detail, error) {
	return s.taskRepo.FindVisible(ctx, user.ID, filter)
}

// Stats summarizes the tasks visible to user
func (s *TaskService) Stats(ctx context.Context, user *identity.User) (task.Stats, error) {
	tasks, err := s.taskRepo.FindVisibleTasks(ctx, user.ID)
	if err != nil {
		return task.Stats{}, err
	}
	return task.ComputeStats(tasks, user.ID, s.now()), nil
}

func (s *TaskService) find(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

func (s *TaskService) detail(ctx context.Context, id uuid.UUID) (*task.Detail, error) {
	d, err := s.taskRepo.FindDetail(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return d, err
}

func (s *TaskService) ensureAssignee(ctx context.Context, assigneeID *uuid.UUID) error {
	if assigneeID == nil || *assigneeID == uuid.Nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(ctx, *assigneeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrAssigneeNotFound
		}
		return err
	}
	return nil
}
