package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// PredictorStub is an in-process stand-in for the prediction service.
// It answers POST /predict with a fixed status and body and records what it received.
type PredictorStub struct {
	*httptest.Server

	mu           sync.Mutex
	bodies       []map[string]any
	contentTypes []string
	traceIDs     []string
}

// StartPredictorStub starts a stub answering every request with status and body.
// The server is closed when the test ends.
func StartPredictorStub(t *testing.T, status int, body string) *PredictorStub {
	t.Helper()

	s := &PredictorStub{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)

		s.mu.Lock()
		s.bodies = append(s.bodies, decoded)
		s.contentTypes = append(s.contentTypes, r.Header.Get("Content-Type"))
		s.traceIDs = append(s.traceIDs, r.Header.Get("X-Trace-Id"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns how many predictions were requested.
func (s *PredictorStub) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

// LastBody returns the decoded JSON body of the latest request.
func (s *PredictorStub) LastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bodies) == 0 {
		return nil
	}
	return s.bodies[len(s.bodies)-1]
}

// LastContentType returns the Content-Type header of the latest request.
func (s *PredictorStub) LastContentType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contentTypes) == 0 {
		return ""
	}
	return s.contentTypes[len(s.contentTypes)-1]
}

// LastTraceID returns the X-Trace-Id header of the latest request.
func (s *PredictorStub) LastTraceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.traceIDs) == 0 {
		return ""
	}
	return s.traceIDs[len(s.traceIDs)-1]
}

// ClosedServerURL returns the address of a server that has already been shut down,
// so connecting to it fails at the transport level.
func ClosedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	return addr
}

const ApprovedBody = `{"prediction":"Approved","probability_approved":0.8,"probability_rejected":0.2}`
