package geoprocessing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"geoflow/pkg/logging"
	"geoflow/workspace"

	"github.com/google/uuid"
)

const destinationMaxRecordCount = 2000

// OutputServiceHandle identifies the destination feature service created
// for one tool call. The handle is owned by the call from provisioning
// until either success transfers it to the caller or failure deletes it.
type OutputServiceHandle struct {
	Name   string
	URL    string
	ItemID string

	registry workspace.ItemRegistry

	mu      sync.Mutex
	deleted bool
}

// WireValue serializes the handle for embedding in the submitted request,
// tying the server-side write to this client-owned destination.
func (h *OutputServiceHandle) WireValue() (string, error) {
	encoded, err := json.Marshal(map[string]interface{}{
		"serviceProperties": map[string]interface{}{
			"name":       h.Name,
			"serviceUrl": h.URL,
		},
		"itemProperties": map[string]interface{}{
			"itemId": h.ItemID,
		},
	})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Delete removes the destination service. Deleting twice is a no-op; a
// not-found answer from the registry is treated as already deleted.
func (h *OutputServiceHandle) Delete(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.deleted {
		return nil
	}
	if err := h.registry.DeleteItem(ctx, h.ItemID); err != nil {
		if isBenignNotFound(err) {
			h.deleted = true
			return nil
		}
		return err
	}
	h.deleted = true
	return nil
}

// Deleted reports whether the handle's service has been removed.
func (h *OutputServiceHandle) Deleted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deleted
}

func isBenignNotFound(err error) bool {
	var serr *workspace.ServerError
	if !errors.As(err, &serr) {
		return false
	}
	msg := strings.ToLower(serr.Message)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

// DefaultOutputName synthesizes a service-safe destination name from the
// tool display name and a random token.
func DefaultOutputName(toolDisplay string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strings.ReplaceAll(toolDisplay, " ", "_") + "_" + token
}

// Provisioner creates destination feature services ahead of job
// submission.
type Provisioner struct {
	Registry workspace.ItemRegistry
}

// Provision checks name availability and creates an empty single-layer,
// query-only feature service tagged with the tool's display name. A taken
// name fails with NameConflictError before anything is created.
func (p *Provisioner) Provision(ctx context.Context, name, toolDisplay string) (*OutputServiceHandle, error) {
	available, err := p.Registry.IsServiceNameAvailable(ctx, name, workspace.FeatureServiceType)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, &NameConflictError{Name: name}
	}

	created, err := p.Registry.CreateService(ctx,
		workspace.ServiceDefinition{
			Name:           name,
			MaxRecordCount: destinationMaxRecordCount,
			Capabilities:   "Query",
		},
		workspace.ItemProperties{
			Title:        name,
			Tags:         []string{"geoanalytics", toolDisplay},
			TypeKeywords: []string{"Feature Service", "Hosted Service"},
		})
	if err != nil {
		return nil, err
	}

	logging.Debug("provision", "created destination service %s (item %s)", created.Name, created.ItemID)
	return &OutputServiceHandle{
		Name:     created.Name,
		URL:      created.URL,
		ItemID:   created.ItemID,
		registry: p.Registry,
	}, nil
}
