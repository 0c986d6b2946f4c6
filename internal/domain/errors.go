// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrTrackNotFound is returned when a path is not part of the library.
	ErrTrackNotFound = errors.New("track not found")

	// ErrPlaylistNotFound is returned when no playlist has the requested ID.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrLibraryPlaylistReadOnly is returned when renaming, deleting or editing the library playlist.
	ErrLibraryPlaylistReadOnly = errors.New("library playlist cannot be modified")

	// ErrInvalidIndex is returned when a track index is out of bounds.
	ErrInvalidIndex = errors.New("invalid track index")

	// ErrScanInProgress is returned when a library update is already running.
	ErrScanInProgress = errors.New("library update already in progress")

	// ErrNoScanInProgress is returned when cancelling while nothing runs.
	ErrNoScanInProgress = errors.New("no library update in progress")

	// ErrScanCancelled is returned when a library update is canceled.
	ErrScanCancelled = errors.New("scan cancelled")

	// ErrFileNotFound is returned when a file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFilePath is returned when a file path is empty or malformed.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrNotADirectory is returned when a library path is a regular file.
	ErrNotADirectory = errors.New("not a directory")

	// ErrInvalidTheme is returned for a theme other than dark, light or system.
	ErrInvalidTheme = errors.New("invalid theme")
)

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load", "delete")
	Type    string // Repository type (e.g., "library", "playlist", "settings")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repository %s.%s failed: %s: %v", e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "LibraryService", "PlaylistService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s.%s failed: %s: %v", e.Service, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
