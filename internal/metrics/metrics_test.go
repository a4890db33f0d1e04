package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveRoute(t *testing.T) {
	rec := New()
	rec.ObserveRoute("found", 2, 3*time.Millisecond)
	rec.ObserveRoute("found", 3, time.Millisecond)
	rec.ObserveRoute("no_route", 2, time.Millisecond)

	if got := testutil.ToFloat64(rec.routeQueries.WithLabelValues("found")); got != 2 {
		t.Errorf("found queries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.routeQueries.WithLabelValues("no_route")); got != 1 {
		t.Errorf("no_route queries = %v, want 1", got)
	}
}

func TestRecorder_Registry(t *testing.T) {
	rec := New()
	rec.ObserveRoute("found", 4, 2*time.Millisecond)
	rec.ObserveRequest(http.MethodPost, "/shortest_path", http.StatusOK, time.Millisecond)
	rec.ObserveRequest(http.MethodGet, "unmatched", http.StatusNotFound, time.Millisecond)

	count, err := testutil.GatherAndCount(rec.Registry(),
		"georoute_http_requests_total",
		"georoute_route_queries_total",
		"georoute_route_query_stops",
	)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// two request series, one result series, one stops histogram
	if count != 4 {
		t.Errorf("expected 4 series, got %d", count)
	}

	expected := `
# HELP georoute_route_queries_total Shortest path queries by result
# TYPE georoute_route_queries_total counter
georoute_route_queries_total{result="found"} 1
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "georoute_route_queries_total"); err != nil {
		t.Error(err)
	}
}

func TestRecorder_Handler(t *testing.T) {
	rec := New()
	rec.ObserveRequest(http.MethodGet, "/nodes", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `georoute_http_requests_total{method="GET",route="/nodes",status="200"} 1`) {
		t.Errorf("request counter missing from exposition:\n%s", body)
	}
}
