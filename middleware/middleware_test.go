package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"autoapply/services"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	router := newTestRouter(NewRateLimiter(3, time.Minute).Limit())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	router := newTestRouter(NewRateLimiter(2, time.Minute).Limit())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestValidateContentTypeRejectsMismatch(t *testing.T) {
	router := newTestRouter(ValidateContentType("multipart/form-data"))

	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid content type")
}

func TestValidateContentTypeAcceptsMatch(t *testing.T) {
	router := newTestRouter(ValidateContentType("multipart/form-data"))

	req := httptest.NewRequest(http.MethodPost, "/ping", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateContentTypeSkipsGET(t *testing.T) {
	router := newTestRouter(ValidateContentType("multipart/form-data"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTokenRejectsMissingHeader(t *testing.T) {
	router := newTestRouter(RequireToken(services.NewJWTService("test-secret")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTokenRejectsInvalidToken(t *testing.T) {
	router := newTestRouter(RequireToken(services.NewJWTService("test-secret")))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTokenAcceptsValidToken(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	token, err := jwtService.GenerateToken("batch-runner", time.Hour)
	assert.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireToken(jwtService))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("client"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "batch-runner", w.Body.String())
}
