package drive

import (
	"net/http"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	contentTypeJSON = "application/json"
)

// Operation describes one Drive API request. Builders only supply the request
// parameters; a Runner performs the call and completes the operation on the
// main loop.
type Operation interface {
	// Name identifies the operation in logs, metrics and errors.
	Name() string

	// Method is the HTTP verb.
	Method() string

	// URL returns the request URL, or an error wrapping ErrInvalidArgument
	// when a required parameter is missing.
	URL() (string, error)

	// Headers returns extra request headers. May be nil.
	Headers() http.Header

	// Body returns the upload content type and content. Both are empty for
	// requests without a body.
	Body() (contentType string, body []byte, err error)

	// complete delivers the transport result to the callback and returns the
	// code the callback actually received.
	complete(code Code, body []byte) Code
}

// baseOperation supplies the defaults for a body-less GET.
type baseOperation struct {
	name string
}

func (b baseOperation) Name() string { return b.name }

func (baseOperation) Method() string { return http.MethodGet }

func (baseOperation) Headers() http.Header { return nil }

func (baseOperation) Body() (string, []byte, error) { return "", nil, nil }

// getDataOperation parses a successful JSON response into T before running
// its callback.
type getDataOperation[T any] struct {
	baseOperation
	parse    func([]byte) (*T, error)
	callback func(Code, *T)
}

func newGetDataOperation[T any](name string, parse func([]byte) (*T, error), callback func(Code, *T)) getDataOperation[T] {
	if callback == nil {
		panic(name + ": callback must not be nil")
	}
	return getDataOperation[T]{
		baseOperation: baseOperation{name: name},
		parse:         parse,
		callback:      callback,
	}
}

func (o *getDataOperation[T]) complete(code Code, body []byte) Code {
	var result *T
	if code.IsSuccess() && len(body) > 0 {
		parsed, err := o.parse(body)
		if err != nil {
			// The body is there but is not what we expected.
			code = CodeParseError
		} else {
			result = parsed
		}
	}
	o.callback(code, result)
	return code
}

// entryActionOperation reports only the result code; any response body is
// ignored.
type entryActionOperation struct {
	baseOperation
	callback EntryActionCallback
}

func newEntryActionOperation(name string, callback EntryActionCallback) entryActionOperation {
	if callback == nil {
		panic(name + ": callback must not be nil")
	}
	return entryActionOperation{
		baseOperation: baseOperation{name: name},
		callback:      callback,
	}
}

func (o *entryActionOperation) complete(code Code, _ []byte) Code {
	o.callback(code)
	return code
}

// isMutating reports whether an operation changes server state.
func isMutating(op Operation) bool {
	return op.Method() != http.MethodGet
}
