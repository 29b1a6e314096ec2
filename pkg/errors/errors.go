// Package errors provides the typed errors used across falcon2jira.
// The reconciler reports every failure per alert and per field, so errors
// carry enough structure for programmatic checks via errors.Is/As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library equivalents so callers
// need only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the falcon2jira system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates that an API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates that credentials were missing or rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransient indicates a transport failure expected to clear by the
	// next scheduled run
	ErrTransient = errors.New("transient failure")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// APIError represents an error response from the Falcon or Jira API.
type APIError struct {
	Service    string // "falcon" or "jira"
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d) on %s: %s", e.Service, e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("%s API error on %s: %s", e.Service, e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrUnauthorized
	case e.StatusCode >= 500:
		return target == ErrTransient
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, endpoint, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// AmbiguousMatchError records that more than one eligible issue matched an
// alert ID. The resolver still picks a winner (most recently updated), but
// the anomaly is surfaced on the outcome rather than swallowed.
type AmbiguousMatchError struct {
	AlertID   string
	IssueKeys []string
	ChosenKey string
}

// Error implements the error interface
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("alert %s matched %d eligible issues (%s); updated %s only",
		e.AlertID, len(e.IssueKeys), strings.Join(e.IssueKeys, ", "), e.ChosenKey)
}

// UnresolvedAssigneeError indicates the alert's assignee name has no matching
// Jira account. Field-scoped: status and comment sync still proceed.
type UnresolvedAssigneeError struct {
	AlertID      string
	AssigneeName string
}

// Error implements the error interface
func (e *UnresolvedAssigneeError) Error() string {
	return fmt.Sprintf("no Jira account found for assignee %q of alert %s", e.AssigneeName, e.AlertID)
}

// Is implements errors.Is support
func (e *UnresolvedAssigneeError) Is(target error) bool {
	return target == ErrNotFound
}

// UnsupportedTransitionError indicates the configured transition is not a
// capability of the issue's current status. A configuration problem, fatal
// for that alert's status update only.
type UnsupportedTransitionError struct {
	IssueKey     string
	Status       string
	TransitionID string
	Available    []string
}

// Error implements the error interface
func (e *UnsupportedTransitionError) Error() string {
	if len(e.Available) > 0 {
		return fmt.Sprintf("transition %q not available for %s in status %q (available: %s)",
			e.TransitionID, e.IssueKey, e.Status, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("transition %q not available for %s in status %q", e.TransitionID, e.IssueKey, e.Status)
}

// Is implements errors.Is support
func (e *UnsupportedTransitionError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PartialReplicationError reports a comment batch that failed partway. The
// comments already written carry their dedup markers, so the next run resumes
// from the first unreplicated comment without any extra bookkeeping here.
type PartialReplicationError struct {
	IssueKey string
	Written  int
	Pending  int
	Err      error
}

// Error implements the error interface
func (e *PartialReplicationError) Error() string {
	return fmt.Sprintf("replicated %d of %d pending comments to %s: %v",
		e.Written, e.Written+e.Pending, e.IssueKey, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PartialReplicationError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnauthorized checks if an error is an authentication error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsTransient checks if an error is expected to clear without intervention
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
