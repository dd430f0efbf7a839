package workspace

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Version is the workspace software version reported at connect time.
type Version struct {
	Major int
	Minor int
}

// String makes Version satisfy the fmt.Stringer interface.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Config overrides discovery for workspaces constructed without a connect
// round trip (tests, fixed deployments).
type Config struct {
	GeoanalyticsURL string
	Version         Version
	Defaults        Context
}

// Workspace is a connected geoanalytics workspace: the portal URL, its
// version, the ambient context defaults, and the connection used for every
// request issued on its behalf.
type Workspace struct {
	URL      string
	Version  Version
	Defaults Context

	conn            *Connection
	items           ItemRegistry
	geoanalyticsURL string
}

// NewWorkspace builds a workspace from an existing connection and explicit
// configuration, skipping discovery.
func NewWorkspace(conn *Connection, cfg Config) *Workspace {
	return &Workspace{
		URL:             conn.BaseURL,
		Version:         cfg.Version,
		Defaults:        cfg.Defaults,
		conn:            conn,
		items:           NewRESTRegistry(conn),
		geoanalyticsURL: strings.TrimRight(cfg.GeoanalyticsURL, "/"),
	}
}

// Connect opens a workspace at url, discovering its version and the
// geoanalytics helper service endpoint from the portal self resource.
func Connect(ctx context.Context, rawURL, token string) (*Workspace, error) {
	conn := NewConnection(rawURL, token)
	info, err := conn.Get(ctx, "sharing/rest/portals/self", nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", rawURL, err)
	}

	ws := &Workspace{
		URL:   conn.BaseURL,
		conn:  conn,
		items: NewRESTRegistry(conn),
	}
	if v, ok := info["currentVersion"].(string); ok {
		ws.Version = parseVersion(v)
	}
	if helpers, ok := info["helperServices"].(map[string]interface{}); ok {
		if ga, ok := helpers["geoanalytics"].(map[string]interface{}); ok {
			if u, ok := ga["url"].(string); ok {
				ws.geoanalyticsURL = strings.TrimRight(u, "/")
			}
		}
	}
	if ws.geoanalyticsURL == "" {
		return nil, fmt.Errorf("workspace at %s does not expose a geoanalytics service", rawURL)
	}
	return ws, nil
}

func parseVersion(s string) Version {
	parts := strings.SplitN(s, ".", 3)
	v := Version{}
	if len(parts) > 0 {
		v.Major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		v.Minor, _ = strconv.Atoi(parts[1])
	}
	return v
}

// Connection returns the workspace's connection.
func (w *Workspace) Connection() *Connection {
	return w.conn
}

// Items returns the workspace's item registry.
func (w *Workspace) Items() ItemRegistry {
	return w.items
}

// SetItems replaces the item registry. Intended for tests and embedders
// that supply their own registry implementation.
func (w *Workspace) SetItems(items ItemRegistry) {
	w.items = items
}

// GeoanalyticsURL returns the base URL of the geoanalytics tool service.
func (w *Workspace) GeoanalyticsURL() string {
	return w.geoanalyticsURL
}

// UploadsURL returns the uploads resource of the geoanalytics service, used
// by the upload-by-parts path.
func (w *Workspace) UploadsURL() string {
	return w.geoanalyticsURL + "/uploads"
}
