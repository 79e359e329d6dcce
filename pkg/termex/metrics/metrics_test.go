package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RunsTotal.WithLabelValues("ok").Inc()
	m.RunsTotal.WithLabelValues("ok").Inc()
	m.RunsTotal.WithLabelValues("empty").Inc()
	m.DocsProcessedTotal.Add(3)
	m.LastRunTerms.Set(7)
	m.ObserveStage("cvalue", 0.02)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("runs ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DocsProcessedTotal); got != 3 {
		t.Errorf("docs processed = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.LastRunTerms); got != 7 {
		t.Errorf("last run terms = %v, want 7", got)
	}
	if got := testutil.CollectAndCount(m.StageDuration); got != 1 {
		t.Errorf("stage series = %d, want 1", got)
	}

	expected := `
# HELP termex_runs_total Total extraction runs by status (ok, empty, error).
# TYPE termex_runs_total counter
termex_runs_total{status="empty"} 1
termex_runs_total{status="ok"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "termex_runs_total"); err != nil {
		t.Error(err)
	}
}

func TestPrivateRegistries(t *testing.T) {
	// two instances must not collide on registration
	a, b := New(nil), New(nil)
	a.CandidatesTotal.Inc()
	if got := testutil.ToFloat64(b.CandidatesTotal); got != 0 {
		t.Errorf("instances share state: %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.SequencesTotal.Add(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "termex_sequences_total 4") {
		t.Errorf("scrape output missing sequences counter:\n%s", rec.Body.String())
	}
}
