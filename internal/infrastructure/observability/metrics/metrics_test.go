package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDashboardCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSectionChange("", "overview", "sidebar")
	m.ObserveSectionChange("overview", "cost", "interaction")
	m.ObserveSectionChange("overview", "cost", "interaction")
	m.ObserveInteraction("metric_card", true)
	m.ObserveInteraction("guardrail_row", false)
	m.ObserveRangeWarnings("overview", 2)
	m.ObserveRangeWarnings("overview", 0)
	m.ObservePageBuild("live", false)
	m.ObservePageBuild("live", true)
	m.SetScore("rai_overall_score", 78)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"initial select", testutil.ToFloat64(m.SectionChanges.WithLabelValues("none", "overview", "sidebar")), 1},
		{"routed change", testutil.ToFloat64(m.SectionChanges.WithLabelValues("overview", "cost", "interaction")), 2},
		{"routed interaction", testutil.ToFloat64(m.Interactions.WithLabelValues("metric_card", "true")), 1},
		{"unrouted interaction", testutil.ToFloat64(m.Interactions.WithLabelValues("guardrail_row", "false")), 1},
		{"range warnings", testutil.ToFloat64(m.RangeWarnings.WithLabelValues("overview")), 2},
		{"page ok", testutil.ToFloat64(m.PageBuilds.WithLabelValues("live", "ok")), 1},
		{"page error", testutil.ToFloat64(m.PageBuilds.WithLabelValues("live", "error")), 1},
		{"score", testutil.ToFloat64(m.Scores.WithLabelValues("rai_overall_score")), 78},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Errorf("got %v, want %v", c.got, c.want)
			}
		})
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := New(nil)
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/sections/unknown", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/sections/*", http.MethodGet, "404")); got != 1 {
		t.Fatalf("expected one 404 request, got %v", got)
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := map[string]string{
		"/":                         "/",
		"/ws":                       "/ws",
		"/sections/cost":            "/sections/*",
		"/api/v1/navigation/select": "/api/v1/navigation/*",
		"/api/v1/snapshots/main":    "/api/v1/snapshots/*",
		"/api/v1/rai-score":         "/api/v1/*",
		"/static/css/style.css":     "/static/*",
		"/wp-admin":                 "other",
	}

	for path, want := range tests {
		if got := normalizeRoute(path); got != want {
			t.Errorf("normalizeRoute(%q) = %q, want %q", path, got, want)
		}
	}
}
