package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveChannelFetch("maps", nil, time.Millisecond)
	m.AddPointsDebited("maps", 3)
	m.IncSuggestionCache("maps", true)
	m.IncCreditRejected()
	if m.Registry() != nil {
		t.Fatal("nil metrics should have no registry")
	}
}

func TestChannelMetrics(t *testing.T) {
	m := New()
	m.ObserveChannelFetch("news", nil, 10*time.Millisecond)
	m.ObserveChannelFetch("news", errors.New("boom"), 10*time.Millisecond)
	m.ObserveChannelFetch("news", nil, 10*time.Millisecond)
	m.AddPointsDebited("news", 4)
	m.IncSuggestionCache("news", true)

	if got := testutil.ToFloat64(m.channelFetches.WithLabelValues("news", "ok")); got != 2 {
		t.Fatalf("ok fetches: got=%v want=2", got)
	}
	if got := testutil.ToFloat64(m.channelFetches.WithLabelValues("news", "error")); got != 1 {
		t.Fatalf("error fetches: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.pointsDebited.WithLabelValues("news")); got != 4 {
		t.Fatalf("points: got=%v want=4", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "keywordiq_suggestion_cache_total") {
		t.Fatal("exposition missing suggestion cache counter")
	}
}
