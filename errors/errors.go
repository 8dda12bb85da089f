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
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to register something that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional update fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")

	// ErrUnknownField is returned when a field name is not declared by an entity type
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidAccessor is returned when an accessor does not denote a single field read
	ErrInvalidAccessor = errors.New("invalid field accessor")

	// ErrCoercion is returned when a value cannot be converted to a field's type
	ErrCoercion = errors.New("value coercion failed")

	// ErrInvalidTarget is returned when a patch target is not a pointer to a struct
	ErrInvalidTarget = errors.New("invalid patch target")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
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

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// UnknownFieldError is returned when a field is queried by a name its entity type does not declare.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Type, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// InvalidAccessorError is returned when a typed accessor cannot be resolved to exactly one field.
type InvalidAccessorError struct {
	Type   string
	Reason string
}

func (e *InvalidAccessorError) Error() string {
	return fmt.Sprintf("invalid accessor on %s: %s", e.Type, e.Reason)
}

func (e *InvalidAccessorError) Is(target error) bool {
	return target == ErrInvalidAccessor
}

// CoercionError is returned when a value cannot be converted into the declared type of a field.
type CoercionError struct {
	Type      string
	Field     string
	ValueType string
	Err       error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot assign %s to %s.%s", e.ValueType, e.Type, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// InvalidTargetError is returned when a patch target cannot be written to.
type InvalidTargetError struct {
	Type string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("patch target must be a non-nil pointer to a struct, got %s", e.Type)
}

func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewUnknownFieldError creates a new UnknownFieldError
func NewUnknownFieldError(entityType, field string) error {
	return &UnknownFieldError{Type: entityType, Field: field}
}

// NewInvalidAccessorError creates a new InvalidAccessorError
func NewInvalidAccessorError(entityType, reason string) error {
	return &InvalidAccessorError{Type: entityType, Reason: reason}
}

// NewCoercionError creates a new CoercionError wrapping the underlying conversion failure
func NewCoercionError(entityType, field, valueType string, err error) error {
	return &CoercionError{Type: entityType, Field: field, ValueType: valueType, Err: err}
}

// NewInvalidTargetError creates a new InvalidTargetError
func NewInvalidTargetError(targetType string) error {
	return &InvalidTargetError{Type: targetType}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsUnknownField checks if an error is an unknown field error
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// IsInvalidAccessor checks if an error is an invalid accessor error
func IsInvalidAccessor(err error) bool {
	return errors.Is(err, ErrInvalidAccessor)
}

// IsCoercion checks if an error is a coercion error
func IsCoercion(err error) bool {
	return errors.Is(err, ErrCoercion)
}

// IsInvalidTarget checks if an error is an invalid patch target error
func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidTarget)
}
