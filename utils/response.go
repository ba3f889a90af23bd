package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every error reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code"`
}

// ErrorResponseWithCode sends an error response with the given status code.
func ErrorResponseWithCode(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := ""
	if err != nil {
		errorMsg = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Error:   errorMsg,
		Code:    statusCode,
	})
}

// BadRequestError sends a 400 error response.
func BadRequestError(c *gin.Context, message string, err error) {
	ErrorResponseWithCode(c, http.StatusBadRequest, message, err)
}

// InternalServerError sends a 500 error response.
func InternalServerError(c *gin.Context, message string, err error) {
	ErrorResponseWithCode(c, http.StatusInternalServerError, message, err)
}

// UnauthorizedError sends a 401 error response.
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithCode(c, http.StatusUnauthorized, message, nil)
}

// ServiceUnavailableError sends a 503 error response.
func ServiceUnavailableError(c *gin.Context, message string) {
	ErrorResponseWithCode(c, http.StatusServiceUnavailable, message, nil)
}
