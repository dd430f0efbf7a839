package geoprocessing

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"geoflow/pkg/logging"
	"geoflow/workspace"

	"golang.org/x/sync/errgroup"
)

// Poll backoff configuration. The interval starts small and grows toward
// the cap so that long jobs do not hammer the status endpoint.
const (
	// initialPollInterval is the delay before the second poll.
	initialPollInterval = 1 * time.Second
	// maxPollInterval caps the delay between polls.
	maxPollInterval = 15 * time.Second
	// pollMultiplier is the factor by which the delay grows after each poll.
	pollMultiplier = 1.6
	// pollJitter adds up to 10% randomness to each delay.
	pollJitter = 0.1
)

// jobProvenanceType is the service type recorded in destination item
// metadata.
const jobProvenanceType = "GPServer"

// Runner executes prepared requests against the remote tool service and
// produces typed results with deterministic cleanup on failure. A Runner is
// stateless and safe for concurrent calls.
type Runner struct {
	Conn     *workspace.Connection
	Registry workspace.ItemRegistry

	// ToolURL is the base URL of the geoanalytics tool service.
	ToolURL string

	// InitialPollInterval and MaxPollInterval override the backoff
	// defaults when non-zero. Tests shrink them.
	InitialPollInterval time.Duration
	MaxPollInterval     time.Duration
}

// Submit POSTs the job and returns its ticket. The request always carries
// async=true alongside the prepared wire parameters.
func (r *Runner) Submit(ctx context.Context, desc *ToolDescriptor, wireParams map[string]string) (JobTicket, error) {
	params := url.Values{}
	for k, v := range wireParams {
		params.Set(k, v)
	}
	params.Set("async", "true")

	resp, err := r.Conn.Post(ctx, r.ToolURL+"/"+desc.Name, params)
	if err != nil {
		return JobTicket{}, &RemoteFailureError{Phase: "submit", Err: err}
	}

	jobID, _ := resp["jobId"].(string)
	statusURL, _ := resp["statusUrl"].(string)
	if jobID == "" || statusURL == "" {
		return JobTicket{}, &InternalError{Message: fmt.Sprintf("submit response for %s carries no job ticket: %v", desc.Name, resp)}
	}
	logging.Info("runner", "submitted %s as job %s", desc.Name, jobID)
	return JobTicket{StatusURL: statusURL, JobID: jobID, SubmittedAt: time.Now()}, nil
}

// Poll fetches the job's current status. Non-terminal states are not
// errors; only transport or protocol problems are.
func (r *Runner) Poll(ctx context.Context, ticket JobTicket) (JobStatus, map[string]interface{}, error) {
	resp, err := r.Conn.Get(ctx, ticket.StatusURL, nil)
	if err != nil {
		return "", nil, &RemoteFailureError{Phase: "poll", JobID: ticket.JobID, Err: err}
	}
	raw, _ := resp["jobStatus"].(string)
	if raw == "" {
		return "", nil, &InternalError{Message: fmt.Sprintf("status response for job %s carries no jobStatus", ticket.JobID)}
	}
	return JobStatus(raw), resp, nil
}

// wait polls until a terminal status, sleeping a growing, jittered delay
// between polls. The sleep is the sole suspension point at which caller
// cancellation is observed. Once a terminal state is seen the loop exits;
// it is never re-polled.
func (r *Runner) wait(ctx context.Context, ticket JobTicket) (JobStatus, map[string]interface{}, error) {
	interval := r.InitialPollInterval
	if interval <= 0 {
		interval = initialPollInterval
	}
	ceiling := r.MaxPollInterval
	if ceiling <= 0 {
		ceiling = maxPollInterval
	}

	for {
		status, payload, err := r.Poll(ctx, ticket)
		if err != nil {
			return "", nil, err
		}
		logging.Debug("runner", "job %s status %s", ticket.JobID, status)
		if status.Terminal() {
			return status, payload, nil
		}

		select {
		case <-ctx.Done():
			return "", nil, &CancelledError{JobID: ticket.JobID, Err: ctx.Err()}
		case <-time.After(withJitter(interval)):
		}
		interval = time.Duration(float64(interval) * pollMultiplier)
		if interval > ceiling {
			interval = ceiling
		}
	}
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Float64()*pollJitter*float64(d))
}

// Collect resolves every declared output of the terminal payload and
// decodes it. Outputs the server did not populate are absent from the
// bundle. Resolution runs in parallel; the first failure wins.
func (r *Runner) Collect(ctx context.Context, ticket JobTicket, desc *ToolDescriptor, payload map[string]interface{}, handle *OutputServiceHandle) (*ResultBundle, error) {
	results, _ := payload["results"].(map[string]interface{})

	bundle := &ResultBundle{Outputs: make(map[string]interface{}, len(desc.Outputs))}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, spec := range desc.Outputs {
		entry, ok := results[spec.Name].(map[string]interface{})
		if !ok {
			continue
		}
		paramURL, _ := entry["paramUrl"].(string)
		if paramURL == "" {
			continue
		}
		spec := spec
		target := paramURL
		if !strings.HasPrefix(target, "http") {
			target = ticket.StatusURL + "/" + strings.TrimLeft(target, "/")
		}
		g.Go(func() error {
			raw, err := r.Conn.Get(gctx, target, nil)
			if err != nil {
				return &RemoteFailureError{Phase: "collect", JobID: ticket.JobID, Err: err}
			}
			value, err := decodeOutput(spec, raw, handle)
			if err != nil {
				return err
			}
			mu.Lock()
			bundle.Outputs[spec.Name] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Run drives a call end to end in blocking mode: submit, wait, collect,
// record provenance. On any failure from submission onward the provisioned
// destination is deleted exactly once before the error surfaces.
func (r *Runner) Run(ctx context.Context, desc *ToolDescriptor, wireParams map[string]string, handle *OutputServiceHandle) (*ResultBundle, error) {
	ticket, err := r.Submit(ctx, desc, wireParams)
	if err != nil {
		r.rollback(ctx, handle, err)
		return nil, err
	}
	return r.finishJob(ctx, ticket, desc, handle, "", nil)
}

// Launch submits the job and returns a future without waiting. A failed
// submission still rolls back the destination.
func (r *Runner) Launch(ctx context.Context, desc *ToolDescriptor, wireParams map[string]string, handle *OutputServiceHandle) (*Job, error) {
	ticket, err := r.Submit(ctx, desc, wireParams)
	if err != nil {
		r.rollback(ctx, handle, err)
		return nil, err
	}
	return &Job{Ticket: ticket, Handle: handle, runner: r, desc: desc}, nil
}

// finishJob takes a submitted job to its conclusion. A known terminal
// status (from a prior poll) short-circuits the wait so a terminal state is
// never re-polled. Every failure path deletes the destination exactly once.
func (r *Runner) finishJob(ctx context.Context, ticket JobTicket, desc *ToolDescriptor, handle *OutputServiceHandle, status JobStatus, payload map[string]interface{}) (bundle *ResultBundle, err error) {
	defer func() {
		if err != nil {
			r.rollback(ctx, handle, err)
		}
	}()

	if status == "" || !status.Terminal() {
		status, payload, err = r.wait(ctx, ticket)
		if err != nil {
			return nil, err
		}
	}

	if !status.Succeeded() {
		err = &RemoteFailureError{
			Phase:    "job",
			JobID:    ticket.JobID,
			Messages: serverMessages(payload),
		}
		return nil, err
	}

	bundle, err = r.Collect(ctx, ticket, desc, payload, handle)
	if err != nil {
		return nil, err
	}
	bundle.Partial = status == StatusCompletedWithErrors

	if err = r.recordProvenance(ctx, ticket, handle, status); err != nil {
		return nil, err
	}
	logging.Info("runner", "job %s finished with status %s", ticket.JobID, status)
	return bundle, nil
}

// recordProvenance writes the job's identity onto the destination item so
// the service can be traced back to the run that produced it. The write is
// idempotent per call.
func (r *Runner) recordProvenance(ctx context.Context, ticket JobTicket, handle *OutputServiceHandle, status JobStatus) error {
	props := map[string]interface{}{
		"jobUrl":    ticket.StatusURL,
		"jobType":   jobProvenanceType,
		"jobId":     ticket.JobID,
		"jobStatus": strings.ToLower(string(status)),
	}
	if err := r.Registry.UpdateItem(ctx, handle.ItemID, map[string]interface{}{"properties": props}); err != nil {
		return &RemoteFailureError{Phase: "finalize", JobID: ticket.JobID, Err: err}
	}
	return nil
}

// rollback deletes the destination service after a failed call. A deletion
// failure is logged but never shadows the primary error. The delete runs
// even when the caller's context is already cancelled.
func (r *Runner) rollback(ctx context.Context, handle *OutputServiceHandle, cause error) {
	if handle == nil {
		return
	}
	logging.Warn("runner", "rolling back destination %s: %v", handle.Name, cause)
	if err := handle.Delete(context.WithoutCancel(ctx)); err != nil {
		logging.Error("runner", err, "failed to delete destination service %s during rollback", handle.Name)
	}
}

// serverMessages flattens the diagnostic messages attached to a status
// payload.
func serverMessages(payload map[string]interface{}) []string {
	raw, _ := payload["messages"].([]interface{})
	var out []string
	for _, m := range raw {
		switch v := m.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			if desc, ok := v["description"].(string); ok {
				out = append(out, desc)
			}
		}
	}
	return out
}
