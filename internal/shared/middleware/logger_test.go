package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"vasilestie-backend/internal/shared/middleware"
)

func loggedRequest(t *testing.T, target string, handler gin.HandlerFunc) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	router := gin.New()
	router.Use(middleware.Logger())
	router.GET("/craftsmen/:id", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("User-Agent", "vasilestie-test/1.0")
	router.ServeHTTP(w, req)
	return buf.String()
}

func TestLoggerRecordsRouteTemplate(t *testing.T) {
	line := loggedRequest(t, "/craftsmen/abc-123?page=2", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Contains(t, line, `"route":"/craftsmen/:id"`)
	assert.Contains(t, line, `"path":"/craftsmen/abc-123?page=2"`)
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, `"user_agent":"vasilestie-test/1.0"`)
}

func TestLoggerEscalatesOnHandlerErrors(t *testing.T) {
	line := loggedRequest(t, "/craftsmen/abc-123", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	assert.Contains(t, line, `"level":"error"`)
	assert.Contains(t, line, `"status":500`)
}
