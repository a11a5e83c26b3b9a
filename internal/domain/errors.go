package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrVersionConflict  = errors.New("version conflict")
	ErrGenerationFailed = errors.New("generation failed")
	ErrContentTooShort  = errors.New("generated content too short")
	ErrStorage          = errors.New("storage error")
)

// ConflictError represents a duplicate-key conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (presenter, script, history entry)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ScriptConflictError is returned when a write was based on a stale version.
// It carries the server state so the caller can resolve without another read.
type ScriptConflictError struct {
	ScriptID        string
	ExpectedVersion int64
	ServerVersion   int64
	ServerContent   string
}

func (e *ScriptConflictError) Error() string {
	return fmt.Sprintf("script %s: expected version %d, server is at version %d",
		e.ScriptID, e.ExpectedVersion, e.ServerVersion)
}

func (e *ScriptConflictError) StatusCode() int {
	return http.StatusConflict
}

func (e *ScriptConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// GenerationFailedError means the text generator errored, timed out or
// returned nothing usable. The script is left unchanged.
type GenerationFailedError struct {
	Reason string
	Err    error
}

func (e *GenerationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return "generation failed: " + e.Reason
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}

func (e *GenerationFailedError) StatusCode() int {
	return http.StatusBadGateway
}

func (e *GenerationFailedError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// ContentTooShortError means generated content was below the minimum length.
type ContentTooShortError struct {
	Length  int
	Minimum int
}

func (e *ContentTooShortError) Error() string {
	return fmt.Sprintf("generated content too short: %d characters, minimum is %d", e.Length, e.Minimum)
}

func (e *ContentTooShortError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func (e *ContentTooShortError) Is(target error) bool {
	return target == ErrContentTooShort
}
