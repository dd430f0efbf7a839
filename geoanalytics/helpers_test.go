package geoanalytics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"geoflow/workspace"
)

// fakePortal is an httptest server standing in for both the portal item
// endpoints and the geoanalytics tool service, so a facade call can run end
// to end against it.
type fakePortal struct {
	mu        sync.Mutex
	srv       *httptest.Server
	taken     map[string]bool
	itemNames map[string]string
	nextItem  int
	updates   map[string][]map[string]string
	deleted   []string
	submits   map[string]map[string]string
	statusSeq []string
	statusHit int
	results   map[string]map[string]interface{}
}

func newFakePortal() *fakePortal {
	f := &fakePortal{
		taken:     map[string]bool{},
		itemNames: map[string]string{},
		updates:   map[string][]map[string]string{},
		submits:   map[string]map[string]string{},
		statusSeq: []string{"Completed"},
		results:   map[string]map[string]interface{}{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/sharing/rest/portals/self/isServiceNameAvailable", f.handleAvailable)
	mux.HandleFunc("/sharing/rest/content/users/createService", f.handleCreate)
	mux.HandleFunc("/sharing/rest/content/items/", f.handleItem)
	mux.HandleFunc("/ga/", f.handleSubmit)
	mux.HandleFunc("/jobs/j-1", f.handleStatus)
	mux.HandleFunc("/jobs/j-1/results/", f.handleResult)
	f.srv = httptest.NewServer(mux)
	return f
}

func (f *fakePortal) Close() { f.srv.Close() }

// workspace returns a workspace wired to the fake's portal and tool
// endpoints.
func (f *fakePortal) workspace(defaults workspace.Context) *workspace.Workspace {
	conn := workspace.NewConnection(f.srv.URL, "test-token")
	return workspace.NewWorkspace(conn, workspace.Config{
		GeoanalyticsURL: f.srv.URL + "/ga",
		Version:         workspace.Version{Major: 11, Minor: 2},
		Defaults:        defaults,
	})
}

func (f *fakePortal) serviceURL(name string) string {
	return "https://services.example.com/" + name + "/FeatureServer"
}

func form(r *http.Request) map[string]string {
	_ = r.ParseForm()
	out := map[string]string{}
	for k := range r.Form {
		out[k] = r.Form.Get(k)
	}
	return out
}

func reply(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakePortal) handleAvailable(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	f.mu.Lock()
	available := !f.taken[name]
	f.mu.Unlock()
	reply(w, map[string]interface{}{"available": available})
}

func (f *fakePortal) handleCreate(w http.ResponseWriter, r *http.Request) {
	params := form(r)
	var createParams map[string]interface{}
	_ = json.Unmarshal([]byte(params["createParameters"]), &createParams)
	name, _ := createParams["name"].(string)

	f.mu.Lock()
	f.taken[name] = true
	f.nextItem++
	itemID := fmt.Sprintf("item-%d", f.nextItem)
	f.itemNames[itemID] = name
	f.mu.Unlock()

	reply(w, map[string]interface{}{
		"success":           true,
		"itemId":            itemID,
		"name":              name,
		"encodedServiceURL": f.serviceURL(name),
	})
}

func (f *fakePortal) handleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sharing/rest/content/items/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	itemID, verb := parts[0], parts[1]

	f.mu.Lock()
	switch verb {
	case "update":
		f.updates[itemID] = append(f.updates[itemID], form(r))
	case "delete":
		f.deleted = append(f.deleted, itemID)
		delete(f.taken, f.itemNames[itemID])
	}
	f.mu.Unlock()
	reply(w, map[string]interface{}{"success": true})
}

func (f *fakePortal) handleSubmit(w http.ResponseWriter, r *http.Request) {
	tool := strings.TrimPrefix(r.URL.Path, "/ga/")
	f.mu.Lock()
	f.submits[tool] = form(r)
	f.mu.Unlock()
	reply(w, map[string]interface{}{
		"jobId":     "j-1",
		"statusUrl": f.srv.URL + "/jobs/j-1",
	})
}

func (f *fakePortal) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.statusHit
	if idx >= len(f.statusSeq) {
		idx = len(f.statusSeq) - 1
	}
	status := f.statusSeq[idx]
	f.statusHit++
	body := map[string]interface{}{"jobStatus": status}
	if strings.HasPrefix(status, "Completed") {
		results := map[string]interface{}{}
		for name := range f.results {
			results[name] = map[string]interface{}{"paramUrl": "results/" + name}
		}
		body["results"] = results
	}
	f.mu.Unlock()
	reply(w, body)
}

func (f *fakePortal) handleResult(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/jobs/j-1/results/")
	f.mu.Lock()
	payload, ok := f.results[name]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	reply(w, payload)
}

func (f *fakePortal) submitFor(tool string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits[tool]
}

func (f *fakePortal) createdNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.itemNames))
	for _, name := range f.itemNames {
		names = append(names, name)
	}
	return names
}
