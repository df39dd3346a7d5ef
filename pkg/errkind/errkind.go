// Package errkind classifies the error kinds described by the system's
// error handling design: subprocess failure, parse failure, configuration
// failure, precondition failure, user cancellation, and IO failure.
package errkind

import "errors"

type Kind int

const (
	Unknown Kind = iota
	Subprocess
	Parse
	Configuration
	Precondition
	Cancellation
	IO
)

func (k Kind) String() string {
	switch k {
	case Subprocess:
		return "subprocess failure"
	case Parse:
		return "parse failure"
	case Configuration:
		return "configuration failure"
	case Precondition:
		return "precondition failure"
	case Cancellation:
		return "user cancellation"
	case IO:
		return "io failure"
	default:
		return "unknown"
	}
}

// ExitCode maps a Kind to a process exit code. Cancellation always exits 0
// per the CLI's documented behavior; every other kind exits non-zero.
func (k Kind) ExitCode() int {
	if k == Cancellation {
		return 0
	}
	return 1
}

// Error wraps an underlying error with a Kind and, for precondition
// failures, a remediation hint shown to the user.
type Error struct {
	Kind   Kind
	Hint   string
	Err    error
	Detail string // captured stderr or other diagnostic text
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Newf(kind Kind, hint string, err error) *Error {
	return &Error{Kind: kind, Hint: hint, Err: err}
}

// WithDetail attaches captured stderr/diagnostic text and returns the
// receiver for chaining.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error; otherwise it returns Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Subprocessf builds a subprocess-failure error carrying captured stderr.
func Subprocessf(stderr string, err error) *Error {
	return (&Error{Kind: Subprocess, Err: err}).WithDetail(stderr)
}

func Preconditionf(hint string, err error) *Error {
	return &Error{Kind: Precondition, Hint: hint, Err: err}
}

func Cancelled() *Error {
	return &Error{Kind: Cancellation, Err: errors.New("cancelled")}
}
