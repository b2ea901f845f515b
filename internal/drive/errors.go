package drive

import (
	"errors"
	"fmt"
)

// Sentinel errors. An *Error unwraps to the sentinel matching its code, so
// callers can use errors.Is(err, drive.ErrNotFound).
var (
	ErrParse              = errors.New("failed to parse response")
	ErrCancelled          = errors.New("operation cancelled")
	ErrNoConnection       = errors.New("no connection")
	ErrNotReady           = errors.New("not ready")
	ErrNoSpace            = errors.New("no space left")
	ErrFile               = errors.New("file error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrServer             = errors.New("server error")
	ErrRequest            = errors.New("request failed")

	// ErrInvalidArgument is returned by Operation.URL when a required
	// parameter is empty.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyResponse is returned by Client methods when a successful
	// response carried no body to convert.
	ErrEmptyResponse = errors.New("empty response")
)

// Error describes a failed operation.
type Error struct {
	// Op is the operation name, e.g. "drive.rename_resource". May be empty.
	Op string

	// Code is the final result code delivered to the callback.
	Code Code
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s (%d)", e.Code, int(e.Code))
	}
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Code, int(e.Code))
}

// Unwrap returns the sentinel error for the code.
func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeParseError:
		return ErrParse
	case CodeCancelled:
		return ErrCancelled
	case CodeNoConnection:
		return ErrNoConnection
	case CodeNotReady:
		return ErrNotReady
	case CodeNoSpace:
		return ErrNoSpace
	case CodeFileError:
		return ErrFile
	case HTTPUnauthorized:
		return ErrUnauthorized
	case HTTPForbidden:
		return ErrForbidden
	case HTTPNotFound:
		return ErrNotFound
	case HTTPConflict:
		return ErrConflict
	case HTTPPreconditionFailed:
		return ErrPreconditionFailed
	}
	if e.Code >= 500 {
		return ErrServer
	}
	return ErrRequest
}

func newError(op string, code Code) error {
	if code.IsSuccess() {
		return nil
	}
	return &Error{Op: op, Code: code}
}
