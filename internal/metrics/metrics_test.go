package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCountsByLabels(t *testing.T) {
	m := New()
	m.Record("confirm", "ok")
	m.Record("confirm", "ok")
	m.Record("confirm", "rejected")

	if got := testutil.ToFloat64(m.transitions.WithLabelValues("confirm", "ok")); got != 2 {
		t.Fatalf("expected 2 ok confirmations, got %v", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("confirm", "rejected")); got != 1 {
		t.Fatalf("expected 1 rejected confirmation, got %v", got)
	}
}

func TestHandlerExposesCounter(t *testing.T) {
	m := New()
	m.Record("cancel", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `guidee_order_transitions_total{operation="cancel",result="ok"} 1`) {
		t.Fatalf("counter missing from exposition:\n%s", body)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Record("dispute", "ok")
	if got := testutil.ToFloat64(b.transitions.WithLabelValues("dispute", "ok")); got != 0 {
		t.Fatalf("expected isolated registries, got %v", got)
	}
}
