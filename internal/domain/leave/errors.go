package leave

import (
	"errors"
	"fmt"
)

// errSkipped aborts a per-employee transaction when the idempotency fence (or
// the yearly ceiling) says the work already happened.
var errSkipped = errors.New("skipped")

// Error codes surfaced to the transport layer.
const (
	CodeInvalidDates        = "invalid_dates"
	CodeEndBeforeStart      = "end_before_start"
	CodeUnknownLeaveType    = "unknown_leave_type"
	CodeInsufficientBalance = "insufficient_balance"
	CodeRemarksRequired     = "remarks_required"
	CodeNotFound            = "not_found"
	CodeAlreadyDecided      = "already_decided"
	CodeInvalidStatus       = "invalid_status"
)

// ValidationError is a rejected operation with a machine-readable code. For
// insufficient-balance rejections Available and Requested carry the numbers the
// UI shows next to the message.
type ValidationError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available *int   `json:"available,omitempty"`
	Requested *int   `json:"requested,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func insufficientBalanceError(available, requested int) *ValidationError {
	return &ValidationError{
		Code:      CodeInsufficientBalance,
		Message:   fmt.Sprintf("requested %d days but only %d available", requested, available),
		Available: &available,
		Requested: &requested,
	}
}
