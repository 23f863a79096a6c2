package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		set     bool
		null    bool
		value   string
	}{
		{"absent", `{}`, false, false, ""},
		{"null", `{"dueDate":null}`, true, true, ""},
		{"value", `{"dueDate":"2026-03-01"}`, true, false, "2026-03-01"},
		{"empty string", `{"dueDate":""}`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &req))

			assert.Equal(t, tt.set, req.DueDate.Set)
			assert.Equal(t, tt.null, req.DueDate.Null)
			assert.Equal(t, tt.value, req.DueDate.Value)
		})
	}
}

func TestNullable_TypeMismatch(t *testing.T) {
	var req UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assigneeId":42}`), &req))
}

func TestUpdateTaskRequestToPatch(t *testing.T) {
	t.Run("null clears assignee and due date", func(t *testing.T) {
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(`{"assigneeId":null,"dueDate":null}`), &req))

		patch, err := req.toPatch()
		require.NoError(t, err)
		assert.True(t, patch.ClearAssignee)
		assert.True(t, patch.ClearDueDate)
		assert.Nil(t, patch.AssigneeID)
		assert.Nil(t, patch.DueDate)
	})

	t.Run("absent fields are left alone", func(t *testing.T) {
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(`{"title":"New"}`), &req))

		patch, err := req.toPatch()
		require.NoError(t, err)
		assert.False(t, patch.ClearAssignee)
		assert.False(t, patch.ClearDueDate)
		require.NotNil(t, patch.Title)
		assert.Equal(t, "New", *patch.Title)
	})

	t.Run("enums are upper-cased", func(t *testing.T) {
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress","priority":"high"}`), &req))

		patch, err := req.toPatch()
		require.NoError(t, err)
		assert.EqualValues(t, "IN_PROGRESS", *patch.Status)
		assert.EqualValues(t, "HIGH", *patch.Priority)
	})

	t.Run("bad due date", func(t *testing.T) {
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"tomorrow"}`), &req))

		_, err := req.toPatch()
		assert.EqualError(t, err, "Invalid due date")
	})

	t.Run("bad assignee id", func(t *testing.T) {
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(`{"assigneeId":"bob"}`), &req))

		_, err := req.toPatch()
		assert.Equal(t, errInvalidAssignee, err)
	})
}
