package news

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse classification of pipeline failures.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindHTTPStatus ErrorKind = "http_status"
	KindPayload    ErrorKind = "payload"
	KindStorage    ErrorKind = "storage"
)

// Error wraps a stage failure with the operation and location it happened at.
type Error struct {
	Op       string
	Kind     ErrorKind
	Location string
	Status   int // HTTP status, KindHTTPStatus only
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		base += fmt.Sprintf(" %d", e.Status)
	}
	if e.Location != "" {
		base += fmt.Sprintf(" (%s)", e.Location)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether any error in err's chain is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
