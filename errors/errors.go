/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInitialization is returned when a storage backend cannot be opened or created
	ErrInitialization = errors.New("storage initialization failed")

	// ErrSerialization is returned when persisted data cannot be parsed back into records
	ErrSerialization = errors.New("serialization failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyResult is returned when a sequence assertion expects at least one element
	ErrEmptyResult = errors.New("sequence contains no matching element")

	// ErrAmbiguousResult is returned when a sequence assertion expects exactly one element
	ErrAmbiguousResult = errors.New("sequence contains more than one matching element")
)

// InitializationError represents a storage backend that could not be opened
type InitializationError struct {
	Backend   string
	Namespace string
	Cause     error
}

func (e *InitializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: failed to initialize namespace %q: %v", e.Backend, e.Namespace, e.Cause)
	}
	return fmt.Sprintf("%s: failed to initialize namespace %q", e.Backend, e.Namespace)
}

func (e *InitializationError) Is(target error) bool {
	return target == ErrInitialization
}

func (e *InitializationError) Unwrap() error {
	return e.Cause
}

// SerializationError represents persisted data that could not be parsed
type SerializationError struct {
	Label string
	Cause error
}

func (e *SerializationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("failed to parse persisted data for collection %q: %v", e.Label, e.Cause)
	}
	return fmt.Sprintf("failed to parse persisted data: %v", e.Cause)
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewInitializationError creates a new InitializationError
func NewInitializationError(backend, namespace string, cause error) error {
	return &InitializationError{Backend: backend, Namespace: namespace, Cause: cause}
}

// NewSerializationError creates a new SerializationError
func NewSerializationError(label string, cause error) error {
	return &SerializationError{Label: label, Cause: cause}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsInitialization checks if an error is an initialization error
func IsInitialization(err error) bool {
	return errors.Is(err, ErrInitialization)
}

// IsSerialization checks if an error is a serialization error
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEmptyResult checks if an error is an empty result error
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}

// IsAmbiguousResult checks if an error is an ambiguous result error
func IsAmbiguousResult(err error) bool {
	return errors.Is(err, ErrAmbiguousResult)
}
