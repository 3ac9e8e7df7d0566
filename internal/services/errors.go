package services

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	CodeNotFound   ErrorCode = "not_found"
	CodeBadRequest ErrorCode = "bad_request"
	CodeForbidden  ErrorCode = "forbidden"
)

// Error is the engine-level error type. It propagates unchanged to the HTTP
// boundary, which maps the code to a status.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to the status the HTTP layer responds with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NewBadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// StatusOf resolves the response status for any error coming out of a
// service call. Unrecognised errors are treated as internal.
func StatusOf(err error) int {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
