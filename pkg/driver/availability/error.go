// Package availability describes why a capture device could not be used.
// Every error carries a Reason, which is what callers map onto their own
// error taxonomy.
package availability

import (
	"errors"
	"fmt"
)

// Reason is a platform failure code.
type Reason string

const (
	ReasonUnknown          Reason = ""
	ReasonNotFound         Reason = "device-not-found"
	ReasonNotAllowed       Reason = "not-allowed"
	ReasonPermissionDenied Reason = "permission-denied"
	ReasonBusy             Reason = "device-busy"
	ReasonUnimplemented    Reason = "not-implemented"
)

var (
	ErrUnimplemented    = NewError(ReasonUnimplemented, "not implemented")
	ErrBusy             = NewError(ReasonBusy, "device or resource busy")
	ErrNoDevice         = NewError(ReasonNotFound, "no such device")
	ErrNotAllowed       = NewError(ReasonNotAllowed, "access to the device is not allowed")
	ErrPermissionDenied = NewError(ReasonPermissionDenied, "permission denied")
)

// Error is an availability error.
type Error struct {
	reason Reason
	s      string
}

func NewError(reason Reason, text string) error {
	return &Error{reason: reason, s: text}
}

// Errorf formats an error carrying reason.
func Errorf(reason Reason, format string, a ...interface{}) error {
	return &Error{reason: reason, s: fmt.Sprintf(format, a...)}
}

// IsError reports whether any error in err's chain is an availability error.
func IsError(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

// ReasonOf returns the reason of the first availability error in err's chain,
// or ReasonUnknown.
func ReasonOf(err error) Reason {
	var target *Error
	if errors.As(err, &target) {
		return target.reason
	}
	return ReasonUnknown
}

func (e *Error) Error() string {
	return e.s
}

func (e *Error) Reason() Reason {
	return e.reason
}

// Is matches any availability error with the same reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.reason == e.reason
}
