package geoprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidArgumentError reports a parameter that failed client-side
// validation. It is raised before any network I/O, so nothing has been
// provisioned when callers see it.
type InvalidArgumentError struct {
	// Param is the client-side parameter name.
	Param string

	// Message describes the violation.
	Message string
}

// Error implements the error interface for InvalidArgumentError.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Message)
}

// IsInvalidArgument checks if an error is an InvalidArgumentError using
// error unwrapping.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// NameConflictError reports that the requested destination service name is
// already taken. No submission has occurred and nothing needs rollback.
type NameConflictError struct {
	Name string
}

// Error implements the error interface for NameConflictError.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("service name %q is already in use", e.Name)
}

// IsNameConflict checks if an error is a NameConflictError using error
// unwrapping.
func IsNameConflict(err error) bool {
	var target *NameConflictError
	return errors.As(err, &target)
}

// RemoteFailureError reports that submission, polling, or collection
// returned an error status or a terminal Failed state. By the time the
// caller sees it, the provisioned destination has been deleted.
type RemoteFailureError struct {
	// Phase names the step that failed: "submit", "poll", "collect",
	// "finalize", or "job" for a terminal failure state.
	Phase string

	// JobID is set once submission succeeded.
	JobID string

	// Messages carries the server's diagnostic text, most recent last.
	Messages []string

	// Err is the underlying error, when one exists.
	Err error
}

// Error implements the error interface for RemoteFailureError.
func (e *RemoteFailureError) Error() string {
	parts := []string{fmt.Sprintf("remote %s failed", e.Phase)}
	if e.JobID != "" {
		parts[0] = fmt.Sprintf("remote %s failed for job %s", e.Phase, e.JobID)
	}
	if len(e.Messages) > 0 {
		parts = append(parts, strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error.
func (e *RemoteFailureError) Unwrap() error {
	return e.Err
}

// IsRemoteFailure checks if an error is a RemoteFailureError using error
// unwrapping.
func IsRemoteFailure(err error) bool {
	var target *RemoteFailureError
	return errors.As(err, &target)
}

// CancelledError reports that the caller's context was cancelled between
// polls. The destination has been deleted; the remote job is abandoned,
// not cancelled.
type CancelledError struct {
	JobID string
	Err   error
}

// Error implements the error interface for CancelledError.
func (e *CancelledError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("call cancelled while tracking job %s: %v", e.JobID, e.Err)
	}
	return fmt.Sprintf("call cancelled: %v", e.Err)
}

// Unwrap returns the underlying context error.
func (e *CancelledError) Unwrap() error {
	return e.Err
}

// IsCancelled checks if an error is a CancelledError using error
// unwrapping.
func IsCancelled(err error) bool {
	var target *CancelledError
	return errors.As(err, &target)
}

// InternalError reports a descriptor inconsistency or an unexpected server
// payload shape. These indicate a bug on one side of the wire rather than
// a bad call.
type InternalError struct {
	Message string
}

// Error implements the error interface for InternalError.
func (e *InternalError) Error() string {
	return "internal: " + e.Message
}

// IsInternal checks if an error is an InternalError using error unwrapping.
func IsInternal(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
