package logger_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/logger"
)

func Test_Middleware_AssignsRequestIDAndLogs(t *testing.T) {
	// arrange
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger.Setup("info", "json", &buf)

	var seen string
	r := gin.New()
	r.Use(logger.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.FromContext(c.Request.Context()).Data["request_id"].(string)
		c.String(http.StatusOK, "pong")
	})

	// act
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// assert
	require.Equal(t, http.StatusOK, w.Code)
	rid := w.Header().Get(logger.RequestIDHeader)
	assert.Len(t, rid, 26)
	assert.Equal(t, rid, seen)
	assert.Contains(t, buf.String(), `"request_id":"`+rid+`"`)
	assert.Contains(t, buf.String(), `"path":"/ping"`)
}

func Test_Middleware_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Setup("info", "text", &bytes.Buffer{})

	r := gin.New()
	r.Use(logger.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(logger.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(logger.RequestIDHeader))
}

func Test_FromContext_FallsBackToBaseLogger(t *testing.T) {
	entry := logger.FromContext(context.Background())

	assert.NotNil(t, entry)
	assert.Same(t, logger.Base(), entry.Logger)
}
