package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type codeInfo struct {
	status         int
	defaultMessage string
}

var codes = map[string]codeInfo{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeForbidden:          {http.StatusForbidden, "Access denied"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "Resource conflict"},
	ErrCodeOperationFailed:    {http.StatusUnprocessableEntity, "Operation failed"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// APIError is the JSON body of every error response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError, filling in the code's default message
// when message is empty.
func NewAPIError(code, message string) *APIError {
	if message == "" {
		message = codes[code].defaultMessage
	}
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// Status returns the HTTP status registered for the error's code.
func (e *APIError) Status() int {
	if info, ok := codes[e.Code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Respond writes err with the status of its code.
func Respond(c *gin.Context, err *APIError) {
	c.JSON(err.Status(), err)
}

// Abort writes err and stops the handler chain. Middleware uses this.
func Abort(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.Status(), err)
}

func Unauthorized(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeUnauthorized, message))
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeForbidden, message))
}

func NotFound(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeNotFound, message))
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeInvalidInput, message))
}

func Conflict(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeConflict, message))
}

// Unprocessable sends a 422 for requests that were valid but produced nothing usable
func Unprocessable(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeOperationFailed, message))
}

func InternalError(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeInternalError, message))
}

func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, NewAPIError(ErrCodeServiceUnavailable, message))
}
