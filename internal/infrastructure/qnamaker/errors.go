package qnamaker

import (
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// KnowledgeBaseError is a failed QnA Maker call.
type KnowledgeBaseError struct {
	Operation  string // e.g. "publish", "download"
	StatusCode int    // HTTP status, 0 when the request never got a response
	Code       string // service error code, when the body carried one
	Message    string
	cause      error
}

func (e *KnowledgeBaseError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("qnamaker %s failed: %s", e.Operation, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("qnamaker %s failed with status %d (%s): %s", e.Operation, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("qnamaker %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *KnowledgeBaseError) Unwrap() error {
	return e.cause
}

// AsAppError projects the failure onto a 502 for HTTP clients.
func (e *KnowledgeBaseError) AsAppError() *apperrors.AppError {
	return apperrors.NewUpstreamError("The knowledge base service request failed.", strconv.Itoa(e.StatusCode))
}

// IsKnowledgeBaseError returns true if err is or wraps a KnowledgeBaseError.
func IsKnowledgeBaseError(err error) bool {
	var kbErr *KnowledgeBaseError
	return errors.As(err, &kbErr)
}

// GetStatusCode extracts the upstream HTTP status, or 0.
func GetStatusCode(err error) int {
	var kbErr *KnowledgeBaseError
	if errors.As(err, &kbErr) {
		return kbErr.StatusCode
	}
	return 0
}
