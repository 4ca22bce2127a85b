package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/config"
)

// fakeAPI serves canned JSON per "METHOD path" and records request bodies and
// call counts.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]any
	statuses  map[string]int
	bodies    map[string][]byte
	calls     map[string]int
	gates     map[string]*gate
}

// gate parks requests to one route until opened.
type gate struct {
	arrived chan struct{}
	open    chan struct{}
	once    sync.Once
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		responses: map[string]any{},
		statuses:  map[string]int{},
		bodies:    map[string][]byte{},
		calls:     map[string]int{},
		gates:     map[string]*gate{},
	}
}

// hold parks requests to route. arrived closes when the first one comes in;
// calling open lets every parked request through.
func (f *fakeAPI) hold(route string) (arrived <-chan struct{}, open func()) {
	g := &gate{arrived: make(chan struct{}), open: make(chan struct{})}
	f.mu.Lock()
	f.gates[route] = g
	f.mu.Unlock()
	var once sync.Once
	return g.arrived, func() { once.Do(func() { close(g.open) }) }
}

func (f *fakeAPI) on(route string, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[route] = body
}

func (f *fakeAPI) fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[route] = status
}

func (f *fakeAPI) callCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeAPI) body(route string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[route]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls[route]++
	if r.Body != nil {
		var raw json.RawMessage
		if json.NewDecoder(r.Body).Decode(&raw) == nil {
			f.bodies[route] = raw
		}
	}
	status, failing := f.statuses[route]
	resp, ok := f.responses[route]
	g := f.gates[route]
	f.mu.Unlock()

	if g != nil {
		g.once.Do(func() { close(g.arrived) })
		select {
		case <-g.open:
		case <-r.Context().Done():
			return
		}
	}

	switch {
	case failing:
		http.Error(w, `{"message":"nope"}`, status)
	case !ok:
		http.NotFound(w, r)
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, nil, zap.NewNop())
	require.NoError(t, err)
	return client
}
