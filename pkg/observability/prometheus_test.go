package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusLayoutMetrics(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheusHooks()

	p.OnLayoutStart(ctx, "cluster", 3)
	p.OnLayoutComplete(ctx, "cluster", 3, 2*time.Millisecond, nil)
	p.OnLayoutComplete(ctx, "cluster", 3, time.Millisecond, nil)
	p.OnLayoutComplete(ctx, "tidy", 0, 0, errLayout)

	if got := testutil.ToFloat64(p.LayoutsTotal.WithLabelValues("cluster", "success")); got != 2 {
		t.Errorf("cluster successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.LayoutsTotal.WithLabelValues("tidy", "error")); got != 1 {
		t.Errorf("tidy errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.LayoutDuration); got != 1 {
		t.Errorf("duration series = %d, want 1 (failures are not observed)", got)
	}
}

func TestPrometheusCacheMetrics(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheusHooks()

	p.OnCacheHit(ctx, "layout")
	p.OnCacheMiss(ctx, "layout")
	p.OnCacheMiss(ctx, "layout")
	p.OnCacheSet(ctx, "tree", 512)
	p.OnCacheSet(ctx, "tree", 256)

	if got := testutil.ToFloat64(p.CacheHits.WithLabelValues("layout")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.CacheMisses.WithLabelValues("layout")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.CacheSetBytes.WithLabelValues("tree")); got != 768 {
		t.Errorf("bytes = %v, want 768", got)
	}
}

func TestPrometheusHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheusHooks()

	p.OnRequest(ctx, "GET", "/v1/layouts/{id}")
	if got := testutil.ToFloat64(p.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	p.OnError(ctx, "GET", "/v1/layouts/{id}", errLayout)
	p.OnResponse(ctx, "GET", "/v1/layouts/{id}", 404, time.Millisecond)

	if got := testutil.ToFloat64(p.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(p.HTTPRequestsTotal.WithLabelValues("GET", "/v1/layouts/{id}", "404")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.HTTPErrorsTotal.WithLabelValues("GET", "/v1/layouts/{id}")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestPrometheusHandler(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheusHooks()
	p.OnCacheHit(ctx, "layout")

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{`arbor_cache_hits_total{type="layout"} 1`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
