// Package flowerr defines the error taxonomy used across the template
// engine and its runtime: one concrete type per error kind, each
// wrapping enough context to report back to an editing or running caller.
package flowerr

import "fmt"

// ValidationError reports a template-edit-time rule violation. Missing
// carries the specific names that failed to resolve, when applicable (e.g.
// an add_generation call referencing unregistered input fields).
type ValidationError struct {
	Path    string
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("validation: %s at %s", e.Message, e.Path)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// NewValidationMissing builds a ValidationError carrying the missing names.
func NewValidationMissing(path string, missing []string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Message: fmt.Sprintf("unresolved references: %v", missing),
		Missing: missing,
	}
}

// ConflictError reports a delete rejected because of a live reference.
type ConflictError struct {
	Path    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s at %s", e.Message, e.Path)
}

// NewConflict builds a ConflictError.
func NewConflict(path, format string, args ...any) *ConflictError {
	return &ConflictError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup that found nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s %q", e.Kind, e.ID)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// RenderError reports a prompt-rendering failure (e.g. a missing placeholder value).
type RenderError struct {
	Message string
}

func (e *RenderError) Error() string { return fmt.Sprintf("render: %s", e.Message) }

// NewRender builds a RenderError.
func NewRender(format string, args ...any) *RenderError {
	return &RenderError{Message: fmt.Sprintf(format, args...)}
}

// BackendError reports a failure from a completion/speech/image backend call.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string { return fmt.Sprintf("backend %s: %v", e.Backend, e.Err) }
func (e *BackendError) Unwrap() error { return e.Err }

// NewBackend builds a BackendError.
func NewBackend(backend string, err error) *BackendError {
	return &BackendError{Backend: backend, Err: err}
}

// ParseError reports a failure decoding or validating a completion response.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse: %s", e.Message)
}
func (e *ParseError) Unwrap() error { return e.Err }

// NewParse builds a ParseError.
func NewParse(err error, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Err: err}
}

// DoubleAssignError reports a second context.Put on an already-resolved
// cell — a template-validation bug, not a user input error.
type DoubleAssignError struct {
	Name string
}

func (e *DoubleAssignError) Error() string {
	return fmt.Sprintf("double assign: field %q already resolved", e.Name)
}

// NewDoubleAssign builds a DoubleAssignError.
func NewDoubleAssign(name string) *DoubleAssignError {
	return &DoubleAssignError{Name: name}
}

// TimeoutError reports a run exceeding its configured wall-time budget.
type TimeoutError struct {
	Seconds float64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: run exceeded %.1fs", e.Seconds)
}

// NewTimeout builds a TimeoutError.
func NewTimeout(seconds float64) *TimeoutError {
	return &TimeoutError{Seconds: seconds}
}

// CancelledError reports a task whose wait was unblocked by run cancellation.
type CancelledError struct {
	Name string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled: %s", e.Name)
}

// NewCancelled builds a CancelledError.
func NewCancelled(name string) *CancelledError {
	return &CancelledError{Name: name}
}
