package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStructuredLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))

	var seen *slog.Logger
	r.GET("/ping", func(c *gin.Context) {
		seen = GetLoggerFromCtx(c.Request.Context())
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotNil(t, seen)
	assert.NotEqual(t, slog.Default(), seen)
}

func TestGetLoggerFromCtxFallsBack(t *testing.T) {
	assert.Equal(t, slog.Default(), GetLoggerFromCtx(t.Context()))
}
