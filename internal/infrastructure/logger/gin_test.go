package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// withRequestID stands in for the HTTP layer's request ID middleware
func withRequestID(base *zap.Logger, id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, l := WithRequestID(c.Request.Context(), base, id)
		c.Request = c.Request.WithContext(WithContext(ctx, l))
		c.Next()
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("level follows status class", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
		router.POST("/api/tasks", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks?status=TODO", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tasks", nil))

		entries := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, entries, 3)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "status=TODO", entries[0].ContextMap()["query"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	})

	t.Run("carries request and user ids from the context", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		base := zap.New(core)
		router := gin.New()
		router.Use(withRequestID(base, "req-123"), GinMiddleware(base))
		router.GET("/api/auth/me", func(c *gin.Context) {
			ctx := c.Request.Context()
			ctx, l := WithUserID(ctx, L(ctx, base), "user-1")
			c.Request = c.Request.WithContext(WithContext(ctx, l))
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

		entries := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "user-1", fields["user_id"])
		assert.Equal(t, "/api/auth/me", fields["path"])
	})

	t.Run("quiet paths drop to debug", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core), "/api/health"))
		router.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/api/health/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Zero(t, recorded.Len())

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health/fail", nil))
		assert.Equal(t, 1, recorded.Len())
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("answers 500 with the request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		base := zap.New(core)
		router := gin.New()
		router.Use(withRequestID(base, "req-9"), Recovery(base))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Internal server error","code":"INTERNAL_ERROR","requestId":"req-9"}`, w.Body.String())

		entries := recorded.FilterMessage("Panic recovered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})

	t.Run("works without a request id", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(nil))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
	})
}

func TestL(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, L(context.Background(), base))

	scoped := zap.NewExample()
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, L(ctx, base))
	assert.NotNil(t, L(context.Background(), nil))
}

func TestWithRequestID_NilLogger(t *testing.T) {
	ctx, l := WithRequestID(context.Background(), nil, "abc")
	assert.NotNil(t, l)
	assert.Equal(t, "abc", GetRequestID(ctx))
}
