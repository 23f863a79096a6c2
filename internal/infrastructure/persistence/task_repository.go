package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Omit("Creator", "Assignee").Create(models.TaskModelFromDomain(t)).Error
}

// Update saves every column of an existing task, including cleared due date and assignee
func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ?", t.ID).
		Select("title", "description", "status", "priority", "due_date", "assignee_id", "updated_at").
		Updates(models.TaskModelFromDomain(t))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a task by ID
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDetail loads a task with its creator and assignee
func (r *GormTaskRepository) FindDetail(ctx context.Context, id uuid.UUID) (*task.Detail, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDetail(), nil
}

// FindVisible lists tasks created by or assigned to userID, newest first
func (r *GormTaskRepository) FindVisible(ctx context.Context, userID uuid.UUID, filter task.Filter) ([]*task.Detail, error) {
	query := r.visibleTo(ctx, userID).
		Preload("Creator").
		Preload("Assignee")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var taskModels []models.TaskModel
	if err := query.Order("created_at DESC").Find(&taskModels).Error; err != nil {
		return nil, err
	}
	details := make([]*task.Detail, len(taskModels))
	for i := range taskModels {
		details[i] = taskModels[i].ToDetail()
	}
	return details, nil
}

// FindVisibleTasks lists tasks created by or assigned to userID without associations
func (r *GormTaskRepository) FindVisibleTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	var taskModels []models.TaskModel
	if err := r.visibleTo(ctx, userID).Find(&taskModels).Error; err != nil {
		return nil, err
	}
	tasks := make([]*task.Task, len(taskModels))
	for i := range taskModels {
		tasks[i] = taskModels[i].ToDomain()
	}
	return tasks, nil
}

func (r *GormTaskRepository) visibleTo(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("creator_id = ? OR assignee_id = ?", userID, userID)
}

// Ensure GormTaskRepository implements task.Repository
var _ task.Repository = (*GormTaskRepository)(nil)
