package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"academy/internal/adapters/http/perf"
)

func pathStats(c *perf.Collector) map[string]perf.Stat {
	out := make(map[string]perf.Stat)
	for _, s := range c.Snapshot(time.Now().Add(-time.Minute), 50).SlowestPaths {
		out[s.Name] = s
	}
	return out
}

// TestTiming_RecordsRequests covers naming, status capture and pooled writer reuse.
func TestTiming_RecordsRequests(t *testing.T) {
	collector := perf.NewCollector(100)
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		NoteRoute(r)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /implicit", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler := Timing(collector, 0)(mux)

	requests := []struct {
		method, path string
		wantCode     int
	}{
		{"PUT", "/api/favorites/course_001", http.StatusOK},
		{"PUT", "/api/favorites/course_002", http.StatusOK},
		{"GET", "/boom", http.StatusInternalServerError},
		{"GET", "/implicit", http.StatusOK}, // a reused writer must not keep the 500
		{"GET", "/static/app.css", http.StatusNotFound},
	}
	for _, req := range requests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(req.method, req.path, nil))
		if rr.Code != req.wantCode {
			t.Errorf("%s %s: status = %d, want %d", req.method, req.path, rr.Code, req.wantCode)
		}
	}

	if got := collector.TotalRecorded(); got != 4 {
		t.Errorf("TotalRecorded = %d, want 4 (static excluded)", got)
	}
	stats := pathStats(collector)
	if s := stats["PUT /api/favorites/{id}"]; s.Count != 2 || s.Errors != 0 {
		t.Errorf("favorites route stat = %+v, want 2 requests aggregated by pattern", s)
	}
	if s := stats["GET /boom"]; s.Count != 1 || s.Errors != 1 {
		t.Errorf("GET /boom stat = %+v, want one error", s)
	}
	if s := stats["GET /implicit"]; s.Errors != 0 {
		t.Errorf("GET /implicit stat = %+v, want no errors", s)
	}
}

func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
}

// The middleware does not recover panics, but its deferred record still runs.
func TestTiming_RecordsOnPanic(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/course/course_001", nil))
}

func TestTiming_LogsSlowRequests(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := Timing(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/favorites", nil))

	if !strings.Contains(buf.String(), "msg=slow_request") || !strings.Contains(buf.String(), "path=/favorites") {
		t.Errorf("expected slow_request warning, got %q", buf.String())
	}

	buf.Reset()
	fast := Timing(nil, 10_000)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	fast.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if buf.Len() != 0 {
		t.Errorf("fast request logged at warn: %q", buf.String())
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		pattern, path, want string
	}{
		{"GET /course/{id}", "/course/course_001", "/course/{id}"},
		{"/static/", "/static/app.css", "/static/"},
		{"", "/nowhere", "/nowhere"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.pattern, tt.path); got != tt.want {
			t.Errorf("routeLabel(%q, %q) = %q, want %q", tt.pattern, tt.path, got, tt.want)
		}
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/courses", nil))
		}
	})
}
