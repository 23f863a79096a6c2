package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptask "github.com/taskflow/backend/internal/application/task"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/task"
	"go.uber.org/zap"
)

var errInvalidAssignee = shared.NewValidationError("Invalid assignee id")

// TaskHandler handles task CRUD and statistics
type TaskHandler struct {
	BaseHandler
	taskService *apptask.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *apptask.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: BaseHandler{logger: logger},
		taskService: taskService,
	}
}

// List returns tasks the user created or is assigned to, newest first.
// Optional query filters: status, priority, assigneeId.
func (h *TaskHandler) List(c *gin.Context) {
	filter, err := parseTaskFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	h.Success(c, out)
}

// Stats returns aggregate counts over the user's visible tasks
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.taskService.Stats(c.Request.Context(), currentUser(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStatsResponse(stats))
}

// Get returns a single task
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", apptask.ErrTaskNotFound.Message)
	if !ok {
		return
	}

	d, err := h.taskService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(d))
}

// Create stores a new task owned by the current user
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := apptask.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      task.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		Priority:    task.Priority(strings.ToUpper(strings.TrimSpace(req.Priority))),
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := task.ParseDueDate(req.DueDate)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		input.DueDate = &due
	}
	if strings.TrimSpace(req.AssigneeID) != "" {
		assignee, err := uuid.Parse(strings.TrimSpace(req.AssigneeID))
		if err != nil {
			h.HandleError(c, errInvalidAssignee)
			return
		}
		input.AssigneeID = &assignee
	}

	d, err := h.taskService.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTaskResponse(d))
}

// Update merges the request into an existing task
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", apptask.ErrTaskNotFound.Message)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	d, err := h.taskService.Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(d))
}

// Delete removes a task; only its creator may do so
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", apptask.ErrTaskNotFound.Message)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Task deleted successfully")
}

func (r UpdateTaskRequest) toPatch() (task.Patch, error) {
	patch := task.Patch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		s := task.Status(strings.ToUpper(strings.TrimSpace(*r.Status)))
		patch.Status = &s
	}
	if r.Priority != nil {
		p := task.Priority(strings.ToUpper(strings.TrimSpace(*r.Priority)))
		patch.Priority = &p
	}

	if r.DueDate.Set {
		if r.DueDate.Null || strings.TrimSpace(r.DueDate.Value) == "" {
			patch.ClearDueDate = true
		} else {
			due, err := task.ParseDueDate(r.DueDate.Value)
			if err != nil {
				return task.Patch{}, err
			}
			patch.DueDate = &due
		}
	}

	if r.AssigneeID.Set {
		if r.AssigneeID.Null || strings.TrimSpace(r.AssigneeID.Value) == "" {
			patch.ClearAssignee = true
		} else {
			assignee, err := uuid.Parse(strings.TrimSpace(r.AssigneeID.Value))
			if err != nil {
				return task.Patch{}, errInvalidAssignee
			}
			patch.AssigneeID = &assignee
		}
	}

	return patch, nil
}

func parseTaskFilter(c *gin.Context) (task.Filter, error) {
	var filter task.Filter
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		s := task.Status(strings.ToUpper(v))
		if !s.IsValid() {
			return filter, shared.NewValidationError("Status must be one of TODO, IN_PROGRESS, DONE")
		}
		filter.Status = &s
	}
	if v := strings.TrimSpace(c.Query("priority")); v != "" {
		p := task.Priority(strings.ToUpper(v))
		if !p.IsValid() {
			return filter, shared.NewValidationError("Priority must be one of LOW, MEDIUM, HIGH, CRITICAL")
		}
		filter.Priority = &p
	}
	if v := strings.TrimSpace(c.Query("assigneeId")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errInvalidAssignee
		}
		filter.AssigneeID = &id
	}
	return filter, nil
}
