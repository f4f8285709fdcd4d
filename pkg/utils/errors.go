package utils

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindInvalidCredential
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindUpstream
	KindUnavailable
)

// AppError carries a user-facing message and the HTTP class it maps to.
// Err keeps the underlying cause for logging; it is never written to clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewInvalidCredentialError(message string) error {
	return &AppError{Kind: KindInvalidCredential, Message: message}
}

func NewAuthError(message string) error {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewUpstreamError(message string, err error) error {
	return &AppError{Kind: KindUpstream, Message: message, Err: err}
}

func NewUnavailableError(message string, err error) error {
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func NewInternalError(message string, err error) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, KindInternal otherwise.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode maps err to the HTTP status written at the boundary.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidCredential:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show to clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}
