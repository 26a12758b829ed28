package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Stable error codes surfaced to callers.
const (
	CodeValidation    = "validation_failed"
	CodeConflict      = "slot_conflict"
	CodeHoliday       = "holiday"
	CodeNotFound      = "not_found"
	CodeForbidden     = "forbidden"
	CodeStateConflict = "state_conflict"
	CodeExternal      = "external_failure"
	CodeInternal      = "internal_error"
)

// Error is a typed service error with a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewHolidayError(reason string) error {
	if reason == "" {
		reason = "the venue is closed on this date"
	}
	return &Error{Code: CodeHoliday, Message: reason}
}

func NewNotFoundError(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflictError(format string, args ...any) error {
	return &Error{Code: CodeStateConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInternalError(format string, args ...any) error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a service Error carrying the given code.
func IsCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// DateConflict names one date that blocked a batch booking.
type DateConflict struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// BatchConflictError rejects an entire batch: no booking was created for any
// date, and Conflicts lists every date that failed.
type BatchConflictError struct {
	Conflicts []DateConflict
}

func (e *BatchConflictError) Error() string {
	dates := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		dates[i] = c.Date
	}
	return fmt.Sprintf("%s: dates unavailable: %s", CodeConflict, strings.Join(dates, ", "))
}
