package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/billminder/internal/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m.RequestsTotal == nil || m.AuthFailures == nil || m.StatusRecords == nil {
		t.Fatal("expected metrics to be initialized")
	}

	m.StatusRecords.WithLabelValues("upcoming").Add(2)
	m.StatusRecords.WithLabelValues("paid").Inc()
	m.PaymentsLogged.Inc()

	if got := testutil.ToFloat64(m.StatusRecords.WithLabelValues("upcoming")); got != 2 {
		t.Errorf("upcoming = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PaymentsLogged); got != 1 {
		t.Errorf("payments = %v, want 1", got)
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	// Two collectors must not collide on registration.
	a := metrics.New()
	b := metrics.New()
	a.BillsSaved.Inc()

	if got := testutil.ToFloat64(b.BillsSaved); got != 0 {
		t.Errorf("second collector saw %v saves", got)
	}
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.RequestsTotal.WithLabelValues("GET", "/api/status", "200").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `billminder_requests_total{method="GET",route="/api/status",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("exposition missing Go runtime metrics")
	}
}
