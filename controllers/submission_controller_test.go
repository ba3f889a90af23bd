package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"autoapply/config"
	"autoapply/services"
)

// stubRunner returns a canned result and records the request it saw.
type stubRunner struct {
	result *services.SubmissionResult
	req    *services.SubmissionRequest
}

func (r *stubRunner) Submit(req *services.SubmissionRequest) *services.SubmissionResult {
	r.req = req
	if r.result != nil {
		return r.result
	}
	return services.NewSubmissionResult(req.JobURL)
}

func testConfig() config.AppConfig {
	return config.AppConfig{MaxConcurrent: 1}
}

func newSubmitRouter(runner *stubRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctl := NewSubmissionController(runner, nil, testConfig())
	router.GET("/health", ctl.Health)
	router.POST("/api/submit", ctl.Submit)
	router.GET("/api/submissions", ctl.List)
	return router
}

func multipartRequest(t *testing.T, fields map[string]string, resumeName string, resumeData []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	if resumeName != "" {
		part, err := writer.CreateFormFile("resume", resumeName)
		assert.NoError(t, err)
		_, err = part.Write(resumeData)
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthEndpoint(t *testing.T) {
	router := newSubmitRouter(&stubRunner{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSubmitReturnsResultBody(t *testing.T) {
	runner := &stubRunner{}
	router := newSubmitRouter(runner)

	req := multipartRequest(t, map[string]string{
		"job_url": "https://jobs.example.com/123",
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
	}, "resume.pdf", []byte("%PDF-1.4 content"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result services.SubmissionResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "https://jobs.example.com/123", result.JobURL)
	assert.Equal(t, services.StatusFailed, result.Status)

	assert.NotNil(t, runner.req)
	assert.Equal(t, "Ada Lovelace", runner.req.Fields[services.RoleName])
	assert.Equal(t, "ada@example.com", runner.req.Fields[services.RoleEmail])
	assert.NotEmpty(t, runner.req.RunID)
}

func TestSubmitRequiresJobURL(t *testing.T) {
	router := newSubmitRouter(&stubRunner{})

	req := multipartRequest(t, map[string]string{}, "resume.pdf", []byte("%PDF-1.4"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "job_url is required")
}

func TestSubmitRejectsNonHTTPURL(t *testing.T) {
	router := newSubmitRouter(&stubRunner{})

	req := multipartRequest(t, map[string]string{"job_url": "ftp://jobs.example.com/123"},
		"resume.pdf", []byte("%PDF-1.4"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "http(s)")
}

func TestSubmitRequiresResumeFile(t *testing.T) {
	router := newSubmitRouter(&stubRunner{})

	req := multipartRequest(t, map[string]string{"job_url": "https://jobs.example.com/123"}, "", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "resume file is required")
}

func TestSubmitRejectsInvalidResume(t *testing.T) {
	runner := &stubRunner{}
	router := newSubmitRouter(runner)

	req := multipartRequest(t, map[string]string{"job_url": "https://jobs.example.com/123"},
		"resume.txt", []byte("plain text"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid resume file")
	assert.Nil(t, runner.req)
}

func TestListWithoutDatabase(t *testing.T) {
	router := newSubmitRouter(&stubRunner{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
