package geoprocessing

import (
	"strings"
	"time"
)

// JobStatus is the status tag reported at a job's status URL. Beyond the
// enumerated states the service emits per-stage tags (ExportingData,
// ImportAttachments, ...); anything not terminal is a progress indicator.
type JobStatus string

const (
	StatusPending             JobStatus = "Pending"
	StatusInProgress          JobStatus = "InProgress"
	StatusCompleted           JobStatus = "Completed"
	StatusCompletedWithErrors JobStatus = "CompletedWithErrors"
	StatusFailed              JobStatus = "Failed"
)

// Terminal reports whether the status ends the poll loop: the three
// enumerated terminal states plus any tag whose name mentions failure.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed:
		return true
	}
	lower := strings.ToLower(string(s))
	return strings.Contains(lower, "fail") || strings.Contains(lower, "error")
}

// Succeeded reports whether a terminal status counts as success.
// CompletedWithErrors is success with a partial-result flag.
func (s JobStatus) Succeeded() bool {
	return s == StatusCompleted || s == StatusCompletedWithErrors
}

// JobTicket identifies an in-flight tool execution.
type JobTicket struct {
	StatusURL   string
	JobID       string
	SubmittedAt time.Time
}

// ResultBundle maps declared output names to their decoded values. It is
// produced only after a terminal success. Partial marks a
// CompletedWithErrors terminal state, in which case some outputs may be
// missing.
type ResultBundle struct {
	Outputs map[string]interface{}
	Partial bool
}

// Value returns the decoded output by name, or nil when the server did not
// populate it.
func (b *ResultBundle) Value(name string) interface{} {
	if b == nil || b.Outputs == nil {
		return nil
	}
	return b.Outputs[name]
}
