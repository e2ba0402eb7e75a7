package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("tennis-league-test")

	m.StatusReconciled(league.StatusRegistrationOpen, league.StatusActive, "success")
	m.StatusReconciled(league.StatusRegistrationOpen, league.StatusActive, "success")
	m.InterestRegistered("65f1c2a9e4b0a1b2c3d41001")
	m.ObserveHTTPRequest(http.MethodGet, "GET /v1/leagues", http.StatusOK, 15*time.Millisecond)

	if got := testutil.ToFloat64(m.statusReconciled.WithLabelValues("registration_open", "active", "success")); got != 2 {
		t.Fatalf("expected 2 reconciled, got %v", got)
	}
	if got := testutil.ToFloat64(m.interestRegistered.WithLabelValues("65f1c2a9e4b0a1b2c3d41001")); got != 1 {
		t.Fatalf("expected 1 interest, got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "GET /v1/leagues", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
}

func TestMetrics_HandlerExposesSeries(t *testing.T) {
	m := NewMetrics("")
	m.ObserveHTTPRequest(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(string(body), `http_requests_total{method="POST",route="unmatched",status="404"} 1`) {
		t.Fatalf("missing request series in:\n%s", body)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.StatusReconciled(league.StatusActive, league.StatusCompleted, "failed")
	m.InterestRegistered("x")
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, 0)
}
