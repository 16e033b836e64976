// Package apperr carries typed failures from services up to the HTTP error
// handler, which turns them into the response envelope.
package apperr

import (
	"errors"
	"net/http"
)

type ErrCode string

const (
	ErrValidation   ErrCode = "VALIDATION_ERROR"
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrConflict     ErrCode = "CONFLICT"
)

type codedError struct {
	code ErrCode
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Code() ErrCode    { return e.code }
func (e *codedError) Message() string { return e.msg }
func (e *codedError) Unwrap() error   { return e.err }

// New returns an error carrying code and a client-safe message.
func New(code ErrCode, msg string) error { return &codedError{code: code, msg: msg} }

// Wrap is New with an underlying cause kept for logs and errors.Is.
func Wrap(code ErrCode, msg string, err error) error {
	return &codedError{code: code, msg: msg, err: err}
}

func Validation(msg string) error   { return New(ErrValidation, msg) }
func Unauthorized(msg string) error { return New(ErrUnauthorized, msg) }
func Forbidden(msg string) error    { return New(ErrForbidden, msg) }
func NotFound(msg string) error     { return New(ErrNotFound, msg) }
func Conflict(msg string) error     { return New(ErrConflict, msg) }

// Code extracts the error code, or "" for untyped errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the client-safe message of a coded error.
func Message(err error) string {
	var ce interface{ Message() string }
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return ""
}

// Status maps a code to its HTTP status; unknown codes are 500.
func Status(code ErrCode) int {
	switch code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
