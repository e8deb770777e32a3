package httperr

import (
	stderrors "errors"
)

// Response is the JSON error envelope sent to clients:
// {"code": 400, "errors": [{"message": "...", "field": "..."}]}.
type Response struct {
	Code   int            `json:"code"`
	Errors []ResponseItem `json:"errors"`
}

// ResponseItem is one client-facing error entry. Field is set only for
// validation failures.
type ResponseItem struct {
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// ToResponse converts an Error to the client-facing envelope. Server faults
// always collapse to a generic message so internals never leak.
func (e *Error) ToResponse() Response {
	if len(e.Fields) > 0 {
		items := make([]ResponseItem, 0, len(e.Fields))
		for _, f := range e.Fields {
			items = append(items, ResponseItem{Message: f.Message, Field: f.Field})
		}
		return Response{Code: e.HTTPStatus, Errors: items}
	}

	msg := e.Message
	if IsServerFault(e.Code) || msg == "" {
		msg = "Internal Server Error"
	}
	return Response{Code: e.HTTPStatus, Errors: []ResponseItem{{Message: msg}}}
}

// As converts err to an *Error if possible.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError classifies an arbitrary error: known *Error values pass through,
// anything else becomes a generic 500.
func FromError(err error) *Error {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(ErrCodeInternal, err)
}
