package utils

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppErrorConverter is implemented by typed downstream errors that know their HTTP projection.
type AppErrorConverter interface {
	AsAppError() *errors.AppError
}

const internalErrorMessage = "Internal server error occurred"

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   &ErrorInfo{Type: "error", Message: message},
	})
}

// ErrorResponseWithError sends an error response based on error type.
// Internal and unavailable errors never expose their cause.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		var conv AppErrorConverter
		if stderrors.As(err, &conv) {
			appErr = conv.AsAppError()
		}
	}

	if appErr == nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(errors.ErrorTypeInternal),
				Message: internalErrorMessage,
			},
		})
		return
	}

	info := &ErrorInfo{Type: string(appErr.Type), Message: appErr.Message}
	switch appErr.Type {
	case errors.ErrorTypeInternal, errors.ErrorTypeUnavailable:
		if appErr.Message == "" {
			info.Message = internalErrorMessage
		}
	case errors.ErrorTypeUnauthorized:
		info.Code = appErr.Details
	default:
		info.Details = appErr.Details
	}

	c.JSON(appErr.Code, APIResponse{Success: false, Error: info})
}

// NoContentResponse sends a no content response
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
