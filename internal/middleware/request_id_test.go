package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func requestIDResponse(t *testing.T, inbound string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(requestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Header().Get(requestIDHeader)
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		got := requestIDResponse(t, "")
		assert.NoError(t, uuid.Validate(got))
	})

	t.Run("keeps a well-formed inbound id", func(t *testing.T) {
		inbound := uuid.NewString()
		assert.Equal(t, inbound, requestIDResponse(t, inbound))
	})

	t.Run("replaces garbage", func(t *testing.T) {
		got := requestIDResponse(t, "not-a-uuid")
		assert.NotEqual(t, "not-a-uuid", got)
		assert.NoError(t, uuid.Validate(got))
	})
}

func TestRecoveryAnswersInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery(zerolog.Nop()))
	router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal error")
}
