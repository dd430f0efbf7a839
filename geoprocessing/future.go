package geoprocessing

import (
	"context"
	"sync"
)

// Job is the future handed to non-blocking callers: the ticket of a
// submitted job plus the destination it will write to. A Job that is never
// awaited does nothing further; the remote job keeps running and no
// metadata update or rollback occurs.
type Job struct {
	Ticket JobTicket
	Handle *OutputServiceHandle

	runner *Runner
	desc   *ToolDescriptor

	mu           sync.Mutex
	seenTerminal bool
	lastStatus   JobStatus
	lastPayload  map[string]interface{}
	done         bool
	bundle       *ResultBundle
	err          error
}

// Status performs a single poll and returns the job's current status. Once
// a terminal status has been observed it is cached and the status endpoint
// is not polled again.
func (j *Job) Status(ctx context.Context) (JobStatus, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.seenTerminal {
		return j.lastStatus, nil
	}

	status, payload, err := j.runner.Poll(ctx, j.Ticket)
	if err != nil {
		return "", err
	}
	j.lastStatus = status
	if status.Terminal() {
		j.seenTerminal = true
		j.lastPayload = payload
	}
	return status, nil
}

// Result blocks until the job reaches a terminal state and yields the
// result bundle, applying the same success and rollback rules as a
// blocking call. Result is memoized: repeated calls return the first
// outcome.
func (j *Job) Result(ctx context.Context) (*ResultBundle, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done {
		return j.bundle, j.err
	}

	var known JobStatus
	var payload map[string]interface{}
	if j.seenTerminal {
		known = j.lastStatus
		payload = j.lastPayload
	}
	bundle, err := j.runner.finishJob(ctx, j.Ticket, j.desc, j.Handle, known, payload)
	if err == nil {
		j.seenTerminal = true
		if bundle.Partial {
			j.lastStatus = StatusCompletedWithErrors
		} else {
			j.lastStatus = StatusCompleted
		}
	}
	j.done = true
	j.bundle = bundle
	j.err = err
	return bundle, err
}
