package workspace

import "sync"

// The ambient workspace is process-wide state consulted when a call omits
// an explicit workspace. It is set at process init and cleared at shutdown.
// In-flight calls capture it at submission; clearing it does not affect
// them.
var (
	ambientMu sync.RWMutex
	ambient   *Workspace
)

// SetActive installs ws as the ambient workspace.
func SetActive(ws *Workspace) {
	ambientMu.Lock()
	defer ambientMu.Unlock()
	ambient = ws
}

// Active returns the ambient workspace, or nil when none is set.
func Active() *Workspace {
	ambientMu.RLock()
	defer ambientMu.RUnlock()
	return ambient
}

// ClearActive removes the ambient workspace.
func ClearActive() {
	ambientMu.Lock()
	defer ambientMu.Unlock()
	ambient = nil
}
