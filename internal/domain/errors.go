package domain

import (
	"errors"
	"net/http"
)

// Stable error codes surfaced to API consumers. These are part of the
// external contract and must not change.
const (
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// HTTPError defines errors that can be mapped to HTTP status codes and
// stable string codes. Implementing this interface enables extensible
// error handling in the transport layer.
type HTTPError interface {
	error
	StatusCode() int
	Code() string
}

type (
	// NotFoundError indicates a resource was not found (or is archived
	// when an active-only view was requested)
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates malformed or invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates a missing or invalid identity context
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the resolved access level is below the
	// operation's minimum requirement
	ForbiddenError struct {
		Message string
	}

	// ConflictError indicates a write raced with another writer or
	// collided with an existing row
	ConflictError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }

func (e *NotFoundError) Code() string     { return CodeNotFound }
func (e *ValidationError) Code() string   { return CodeInvalidInput }
func (e *UnauthorizedError) Code() string { return CodeUnauthorized }
func (e *ForbiddenError) Code() string    { return CodeForbidden }
func (e *ConflictError) Code() string     { return CodeConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Is allows errors.Is() to match typed errors against their sentinels,
// so callers can branch without knowing the concrete type.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *ConflictError) Is(target error) bool     { return target == ErrConflict }
