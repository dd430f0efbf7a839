package geoprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"geoflow/workspace"
)

// fakeRegistry is an in-memory ItemRegistry that records every call.
type fakeRegistry struct {
	mu        sync.Mutex
	taken     map[string]bool
	itemNames map[string]string
	created   []workspace.ServiceDefinition
	updates   map[string][]map[string]interface{}
	deleted   []string
	deleteErr error
	nextItem  int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		taken:     map[string]bool{},
		itemNames: map[string]string{},
		updates:   map[string][]map[string]interface{}{},
	}
}

func (f *fakeRegistry) IsServiceNameAvailable(ctx context.Context, name, serviceType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.taken[name], nil
}

func (f *fakeRegistry) CreateService(ctx context.Context, def workspace.ServiceDefinition, props workspace.ItemProperties) (workspace.ServiceHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, def)
	f.taken[def.Name] = true
	f.nextItem++
	itemID := fmt.Sprintf("item-%d", f.nextItem)
	f.itemNames[itemID] = def.Name
	return workspace.ServiceHandle{
		Name:   def.Name,
		URL:    "https://services.example.com/" + def.Name + "/FeatureServer",
		ItemID: itemID,
	}, nil
}

func (f *fakeRegistry) UpdateItem(ctx context.Context, itemID string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[itemID] = append(f.updates[itemID], data)
	return nil
}

func (f *fakeRegistry) DeleteItem(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, itemID)
	delete(f.taken, f.itemNames[itemID])
	return nil
}

func (f *fakeRegistry) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

// fakeToolService is an httptest-backed stand-in for the remote
// geoanalytics service: it records submissions, serves a scripted status
// sequence, and resolves result parameters.
type fakeToolService struct {
	mu         sync.Mutex
	srv        *httptest.Server
	submits    []map[string]string
	statusSeq  []string
	statusHits int
	results    map[string]map[string]interface{}
	messages   []interface{}
	submitErr  bool
}

func newFakeToolService() *fakeToolService {
	f := &fakeToolService{results: map[string]map[string]interface{}{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/ga/", f.handleSubmit)
	mux.HandleFunc("/jobs/j-1", f.handleStatus)
	mux.HandleFunc("/jobs/j-1/results/", f.handleResult)
	f.srv = httptest.NewServer(mux)
	return f
}

func (f *fakeToolService) Close() { f.srv.Close() }

func (f *fakeToolService) toolURL() string { return f.srv.URL + "/ga" }

func (f *fakeToolService) conn() *workspace.Connection {
	return workspace.NewConnection(f.srv.URL, "test-token")
}

func (f *fakeToolService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	params := map[string]string{}
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}
	f.mu.Lock()
	f.submits = append(f.submits, params)
	fail := f.submitErr
	f.mu.Unlock()

	if fail {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{"code": 500, "message": "submission rejected"},
		})
		return
	}
	writeJSON(w, map[string]interface{}{
		"jobId":     "j-1",
		"statusUrl": f.srv.URL + "/jobs/j-1",
	})
}

func (f *fakeToolService) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.statusHits
	if idx >= len(f.statusSeq) {
		idx = len(f.statusSeq) - 1
	}
	status := f.statusSeq[idx]
	f.statusHits++
	messages := f.messages
	f.mu.Unlock()

	body := map[string]interface{}{"jobStatus": status}
	if JobStatus(status).Terminal() {
		results := map[string]interface{}{}
		f.mu.Lock()
		for name := range f.results {
			results[name] = map[string]interface{}{"paramUrl": "results/" + name}
		}
		f.mu.Unlock()
		body["results"] = results
	}
	if len(messages) > 0 {
		body["messages"] = messages
	}
	writeJSON(w, body)
}

func (f *fakeToolService) handleResult(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/jobs/j-1/results/")
	f.mu.Lock()
	payload, ok := f.results[name]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, payload)
}

func (f *fakeToolService) submitted() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]string, len(f.submits))
	copy(out, f.submits)
	return out
}

func (f *fakeToolService) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusHits
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// clusterDescriptor is the descriptor used throughout the runner tests.
func clusterDescriptor() *ToolDescriptor {
	return &ToolDescriptor{
		Name:    "FindPointClusters",
		Display: "Find Point Clusters",
		Params: map[string]ParamSpec{
			"input_layer":          {ServerName: "inputLayer", Kind: KindFeatureSet},
			"cluster_method":       {ServerName: "clusterMethod", Kind: KindString, Allowed: []string{"DBSCAN", "HDBSCAN", "OPTICS"}},
			"min_features_cluster": {ServerName: "minFeaturesCluster", Kind: KindInt},
			"search_distance":      {ServerName: "searchDistance", Kind: KindFloat},
			"search_distance_unit": {ServerName: "searchDistanceUnit", Kind: KindString, Allowed: []string{"Meters", "Kilometers"}},
		},
		Outputs: []OutputSpec{
			{Name: "output", Display: "Output Features", Kind: OutFeatureSet},
		},
	}
}
