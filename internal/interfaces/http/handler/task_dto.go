package handler

// CreateTaskRequest represents a request to create a task.
// DueDate accepts RFC 3339 or YYYY-MM-DD; an empty AssigneeID means unassigned.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	AssigneeID  string `json:"assigneeId"`
}

// UpdateTaskRequest is a partial update. Absent fields are left unchanged and
// null clears dueDate or assigneeId.
type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	DueDate     Nullable[string] `json:"dueDate"`
	AssigneeID  Nullable[string] `json:"assigneeId"`
}
