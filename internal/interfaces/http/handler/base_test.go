package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/interfaces/http/dto"
	"github.com/taskflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"validation", shared.NewValidationError("Title is required"), http.StatusBadRequest, shared.CodeValidation, "Title is required"},
		{"not found", shared.NewNotFoundError("Task not found"), http.StatusNotFound, shared.CodeNotFound, "Task not found"},
		{"forbidden", shared.NewForbiddenError("nope"), http.StatusForbidden, shared.CodeForbidden, "nope"},
		{"conflict", shared.NewConflictError("Email already in use"), http.StatusConflict, shared.CodeAlreadyExists, "Email already in use"},
		{"wrapped domain error", fmt.Errorf("outer: %w", shared.NewNotFoundError("Team not found")), http.StatusNotFound, shared.CodeNotFound, "Team not found"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, shared.CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{logger: zap.NewNop()}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("request_id", "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := errorBody(t, w)
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.Equal(t, tt.expectedMsg, body.Message)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestBaseHandlerHandleError_LogsInternalDetail(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := &BaseHandler{logger: zap.New(core)}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, errors.New("pq: relation does not exist"))

	assert.NotContains(t, w.Body.String(), "relation")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "pq: relation does not exist", logs.All()[0].ContextMap()["error"])
}

func TestBaseHandlerHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandlerPathUUID(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.pathUUID(c, "id", "Item not found")
		if ok {
			c.String(http.StatusOK, id.String())
		}
	})

	w := perform(engine, http.MethodGet, "/items/5b0f3c1e-1111-4a4a-9b9b-000000000001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5b0f3c1e-1111-4a4a-9b9b-000000000001", w.Body.String())

	w = perform(engine, http.MethodGet, "/items/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found", errorBody(t, w).Message)
}

func TestBaseHandlerBindJSON(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.POST("/login", func(c *gin.Context) {
		var req LoginRequest
		if h.BindJSON(c, &req) {
			c.String(http.StatusOK, req.Email)
		}
	})

	w := perform(engine, http.MethodPost, "/login", LoginRequest{Email: "a@b.co", Password: "x"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(engine, http.MethodPost, "/login", map[string]string{"email": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := errorBody(t, w)
	assert.Equal(t, shared.CodeValidation, body.Code)
	assert.NotEmpty(t, body.Details)

	w = perform(engine, http.MethodPost, "/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, errorBody(t, w).Code)
}

func TestCurrentUser_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, currentUser(c))
	assert.Nil(t, middleware.GetJWTClaims(c))
}
