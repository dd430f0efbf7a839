// Package workspace models the remote workspace a geoprocessing call runs
// against: the authenticated HTTP connection, the item registry that
// creates and deletes destination services, the ambient (process-wide)
// active workspace, and the per-call context settings that tools inherit
// from it.
//
// The geoprocessing orchestrator consumes these as injected collaborators.
// It never reaches for globals except through Active(), and only when a
// call does not name a workspace explicitly.
//
// A workspace is usually opened once at startup:
//
//	ws, err := workspace.Connect(ctx, "https://example.com/portal", token)
//	if err != nil { ... }
//	workspace.SetActive(ws)
//
// Tests construct workspaces without discovery via NewWorkspace and swap
// the item registry with SetItems.
package workspace
