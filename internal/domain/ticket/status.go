package ticket

import (
	"fmt"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// Status is the ticket state. Values are persisted as integers.
type Status int

const (
	StatusUnAnswered Status = 0
	StatusAnswered   Status = 1

	// StatusMaxValue is the highest valid status.
	StatusMaxValue = StatusAnswered
)

func (s Status) IsValid() bool {
	return s >= StatusUnAnswered && s <= StatusMaxValue
}

func (s Status) String() string {
	switch s {
	case StatusUnAnswered:
		return "Unanswered"
	case StatusAnswered:
		return "Answered"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// NewStatus converts a stored integer into a Status, rejecting out-of-range values.
func NewStatus(value int) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return 0, errors.NewValidationError("invalid ticket status",
			fmt.Sprintf("status %d is outside 0..%d", value, int(StatusMaxValue)))
	}
	return s, nil
}
