package geoanalytics

import (
	"context"
	"errors"
	"strings"

	"geoflow/geoprocessing"
	"geoflow/workspace"
)

// ErrNoWorkspace is returned when a call names no workspace and no ambient
// workspace is active.
var ErrNoWorkspace = errors.New("no workspace: pass WithWorkspace or set an active workspace")

// RunOutput is what a tool call yields. Exactly one mode is populated:
// Service for the default blocking call, Service+Bundle when the caller
// asked for the full result tuple, Job for non-blocking calls.
type RunOutput struct {
	Service *geoprocessing.OutputServiceHandle
	Bundle  *geoprocessing.ResultBundle
	Job     *geoprocessing.Job
}

type callOptions struct {
	ws          *workspace.Workspace
	context     *workspace.Context
	outputName  string
	returnTuple bool
	nonBlocking bool
}

// Option adjusts how a tool call runs.
type Option func(*callOptions)

// WithWorkspace pins the call to ws instead of the ambient workspace.
func WithWorkspace(ws *workspace.Workspace) Option {
	return func(o *callOptions) { o.ws = ws }
}

// WithContext sets the per-call spatial context. It is used verbatim; the
// ambient defaults are not consulted.
func WithContext(c *workspace.Context) Option {
	return func(o *callOptions) { o.context = c }
}

// WithOutputName names the destination service instead of synthesizing a
// name.
func WithOutputName(name string) Option {
	return func(o *callOptions) { o.outputName = name }
}

// ReturnTuple makes the call return the full result bundle alongside the
// destination handle.
func ReturnTuple() Option {
	return func(o *callOptions) { o.returnTuple = true }
}

// NonBlocking makes the call return immediately after submission with a
// Job future.
func NonBlocking() Option {
	return func(o *callOptions) { o.nonBlocking = true }
}

// Run executes the named catalog tool with raw client arguments. The typed
// per-tool functions are preferred; Run exists for generic callers like the
// CLI.
func Run(ctx context.Context, tool string, raw map[string]interface{}, opts ...Option) (*RunOutput, error) {
	desc, err := Describe(tool)
	if err != nil {
		return nil, err
	}
	o := collectOptions(opts)
	return runDescriptor(ctx, desc, raw, o)
}

func collectOptions(opts []Option) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// runDescriptor is the shared execution path behind every facade function:
// normalize, provision, embed the destination, then run in the requested
// mode. Validation happens before provisioning so an invalid call creates
// nothing.
func runDescriptor(ctx context.Context, desc *geoprocessing.ToolDescriptor, raw map[string]interface{}, o callOptions) (*RunOutput, error) {
	ws := o.ws
	if ws == nil {
		ws = workspace.Active()
	}
	if ws == nil {
		return nil, ErrNoWorkspace
	}

	wire, err := geoprocessing.BuildParams(raw, desc, o.context, &ws.Defaults)
	if err != nil {
		return nil, err
	}

	name := o.outputName
	if name == "" {
		name = geoprocessing.DefaultOutputName(desc.Display)
	}

	prov := &geoprocessing.Provisioner{Registry: ws.Items()}
	handle, err := prov.Provision(ctx, name, desc.Display)
	if err != nil {
		return nil, err
	}

	embedded, err := handle.WireValue()
	if err != nil {
		// nothing submitted yet, but the service exists
		_ = handle.Delete(ctx)
		return nil, err
	}
	wire[desc.OutputParamName()] = embedded

	runner := &geoprocessing.Runner{
		Conn:     ws.Connection(),
		Registry: ws.Items(),
		ToolURL:  ws.GeoanalyticsURL(),
	}

	if o.nonBlocking {
		job, err := runner.Launch(ctx, desc, wire, handle)
		if err != nil {
			return nil, err
		}
		return &RunOutput{Job: job}, nil
	}

	bundle, err := runner.Run(ctx, desc, wire, handle)
	if err != nil {
		return nil, err
	}
	if o.returnTuple {
		return &RunOutput{Service: handle, Bundle: bundle}, nil
	}
	return &RunOutput{Service: handle}, nil
}

// Describe looks up a catalog descriptor by tool name, matched
// case-insensitively.
func Describe(tool string) (*geoprocessing.ToolDescriptor, error) {
	for _, desc := range catalog {
		if strings.EqualFold(desc.Name, tool) {
			return desc, nil
		}
	}
	return nil, &geoprocessing.InvalidArgumentError{Param: "tool", Message: "unknown tool " + tool}
}

// Tools lists the catalog's tool names in registration order.
func Tools() []string {
	names := make([]string, len(catalog))
	for i, desc := range catalog {
		names[i] = desc.Name
	}
	return names
}
