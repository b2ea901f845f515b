package drive

import "strconv"

// Code is the result code delivered to every operation callback. Server
// responses carry their HTTP status code; failures detected on the client side
// use the negative codes.
type Code int

// HTTP status codes the Drive API is known to return.
const (
	HTTPSuccess             Code = 200
	HTTPCreated             Code = 201
	HTTPNoContent           Code = 204
	HTTPFound               Code = 302
	HTTPNotModified         Code = 304
	HTTPResumeIncomplete    Code = 308
	HTTPBadRequest          Code = 400
	HTTPUnauthorized        Code = 401
	HTTPForbidden           Code = 403
	HTTPNotFound            Code = 404
	HTTPConflict            Code = 409
	HTTPLengthRequired      Code = 411
	HTTPPreconditionFailed  Code = 412
	HTTPInternalServerError Code = 500
	HTTPServiceUnavailable  Code = 503
)

// Client-side result codes.
const (
	CodeParseError   Code = -100
	CodeFileError    Code = -101
	CodeCancelled    Code = -102
	CodeOtherError   Code = -103
	CodeNoConnection Code = -104
	CodeNotReady     Code = -105
	CodeNoSpace      Code = -106
)

var codeNames = map[Code]string{
	HTTPSuccess:             "HTTP_SUCCESS",
	HTTPCreated:             "HTTP_CREATED",
	HTTPNoContent:           "HTTP_NO_CONTENT",
	HTTPFound:               "HTTP_FOUND",
	HTTPNotModified:         "HTTP_NOT_MODIFIED",
	HTTPResumeIncomplete:    "HTTP_RESUME_INCOMPLETE",
	HTTPBadRequest:          "HTTP_BAD_REQUEST",
	HTTPUnauthorized:        "HTTP_UNAUTHORIZED",
	HTTPForbidden:           "HTTP_FORBIDDEN",
	HTTPNotFound:            "HTTP_NOT_FOUND",
	HTTPConflict:            "HTTP_CONFLICT",
	HTTPLengthRequired:      "HTTP_LENGTH_REQUIRED",
	HTTPPreconditionFailed:  "HTTP_PRECONDITION",
	HTTPInternalServerError: "HTTP_INTERNAL_SERVER_ERROR",
	HTTPServiceUnavailable:  "HTTP_SERVICE_UNAVAILABLE",
	CodeParseError:          "PARSE_ERROR",
	CodeFileError:           "FILE_ERROR",
	CodeCancelled:           "CANCELLED",
	CodeOtherError:          "OTHER_ERROR",
	CodeNoConnection:        "NO_CONNECTION",
	CodeNotReady:            "NOT_READY",
	CodeNoSpace:             "NO_SPACE",
}

// String returns the symbolic name of the code, or "HTTP_<n>" / "CODE_<n>"
// for codes without one.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	if c >= 0 {
		return "HTTP_" + strconv.Itoa(int(c))
	}
	return "CODE_" + strconv.Itoa(int(c))
}

// IsSuccess reports whether the code is a 2xx HTTP status.
func (c Code) IsSuccess() bool {
	return c >= 200 && c <= 299
}

// Err returns nil for successful codes and an *Error otherwise.
func (c Code) Err() error {
	if c.IsSuccess() {
		return nil
	}
	return &Error{Code: c}
}
