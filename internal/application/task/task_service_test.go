package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"github.com/taskflow/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type taskFixture struct {
	service *TaskService
	users   *persistence.GormUserRepository
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	users := persistence.NewGormUserRepository(database.DB)
	return &taskFixture{
		service: NewTaskService(persistence.NewGormTaskRepository(database.DB), users, zap.NewNop()),
		users:   users,
	}
}

func (f *taskFixture) user(t *testing.T, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username+"@example.com", username, "secret123", username, "Tester", identity.RoleMember)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	t.Run("defaults and joined users", func(t *testing.T) {
		d, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "Write docs", AssigneeID: &bob.ID})
		require.NoError(t, err)
		assert.Equal(t, task.StatusTodo, d.Status)
		assert.Equal(t, task.PriorityMedium, d.Priority)
		require.NotNil(t, d.Creator)
		assert.Equal(t, "alice", d.Creator.Username)
		require.NotNil(t, d.Assignee)
		assert.Equal(t, "bob", d.Assignee.Username)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "x", AssigneeID: &ghost})
		require.Error(t, err)
		assert.Equal(t, "Assignee not found", err.Error())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "   "})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "x", Priority: "URGENT"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestTaskService_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	eve := f.user(t, "eve")

	created, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "Shared", AssigneeID: &bob.ID})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, alice, CreateTaskInput{Title: "Private"})
	require.NoError(t, err)

	got, err := f.service.Get(ctx, bob, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Title)

	_, err = f.service.Get(ctx, eve, created.ID)
	assert.Equal(t, ErrViewForbidden, err)

	_, err = f.service.Get(ctx, alice, uuid.New())
	assert.Equal(t, ErrTaskNotFound, err)

	aliceTasks, err := f.service.List(ctx, alice, task.Filter{})
	require.NoError(t, err)
	require.Len(t, aliceTasks, 2)
	assert.Equal(t, "Private", aliceTasks[0].Title, "newest first")

	bobTasks, err := f.service.List(ctx, bob, task.Filter{})
	require.NoError(t, err)
	require.Len(t, bobTasks, 1)

	eveTasks, err := f.service.List(ctx, eve, task.Filter{})
	require.NoError(t, err)
	assert.Empty(t, eveTasks)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	eve := f.user(t, "eve")

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	created, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "Ship", AssigneeID: &bob.ID, DueDate: &due})
	require.NoError(t, err)

	t.Run("assignee changes status", func(t *testing.T) {
		done := task.StatusDone
		d, err := f.service.Update(ctx, bob, created.ID, task.Patch{Status: &done})
		require.NoError(t, err)
		assert.Equal(t, task.StatusDone, d.Status)
		assert.Equal(t, "Ship", d.Title)
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		_, err := f.service.Update(ctx, eve, created.ID, task.Patch{Title: strPtr("Hijack")})
		require.Error(t, err)
		assert.Equal(t, "You don't have permission to update this task", err.Error())
	})

	t.Run("clearing assignee and due date", func(t *testing.T) {
		d, err := f.service.Update(ctx, alice, created.ID, task.Patch{ClearAssignee: true, ClearDueDate: true})
		require.NoError(t, err)
		assert.Nil(t, d.AssigneeID)
		assert.Nil(t, d.Assignee)
		assert.Nil(t, d.DueDate)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.service.Update(ctx, alice, created.ID, task.Patch{AssigneeID: &ghost})
		assert.Equal(t, ErrAssigneeNotFound, err)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.service.Update(ctx, alice, uuid.New(), task.Patch{Title: strPtr("x")})
		assert.Equal(t, ErrTaskNotFound, err)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	created, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "Ship", AssigneeID: &bob.ID})
	require.NoError(t, err)

	assert.Equal(t, ErrDeleteForbidden, f.service.Delete(ctx, bob, created.ID))
	require.NoError(t, f.service.Delete(ctx, alice, created.ID))
	assert.Equal(t, ErrTaskNotFound, f.service.Delete(ctx, alice, created.ID))
}

func TestTaskService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	f.service.WithClock(func() time.Time { return now })

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	yesterday := now.AddDate(0, 0, -1)
	today := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	_, err := f.service.Create(ctx, alice, CreateTaskInput{Title: "late", DueDate: &yesterday, Priority: task.PriorityHigh})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, alice, CreateTaskInput{Title: "today", DueDate: &today})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, alice, CreateTaskInput{Title: "done", Status: task.StatusDone})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, bob, CreateTaskInput{Title: "for alice", AssigneeID: &alice.ID, Status: task.StatusInProgress})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, bob, CreateTaskInput{Title: "bob only"})
	require.NoError(t, err)

	stats, err := f.service.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Todo)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 1, stats.AssignedToMe)
	assert.Equal(t, 3, stats.CreatedByMe)
	assert.Equal(t, 25, stats.CompletionRate)
	assert.Equal(t, 1, stats.ByPriority[task.PriorityHigh])
	assert.Equal(t, 3, stats.ByPriority[task.PriorityMedium])
	assert.Equal(t, 0, stats.ByPriority[task.PriorityCritical])

	empty, err := f.service.Stats(ctx, f.user(t, "eve"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.CompletionRate)
}
