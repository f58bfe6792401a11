package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
)

func TestObserveEvent(t *testing.T) {
	m := New()

	m.ObserveEvent(telemetry.Event{Kind: telemetry.KindCommand, Outcome: "moved"})
	m.ObserveEvent(telemetry.Event{Kind: telemetry.KindCommand, Outcome: "blocked_low_battery"})
	m.ObserveEvent(telemetry.Event{Kind: telemetry.KindPower, Power: &protocol.PowerData{Charge: 42}})

	if got := testutil.ToFloat64(m.events.WithLabelValues("command")); got != 2 {
		t.Errorf("command events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.blocked.WithLabelValues("blocked_low_battery")); got != 1 {
		t.Errorf("blocked = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.charge); got != 42 {
		t.Errorf("charge = %v, want 42", got)
	}
}

func TestControlCounters(t *testing.T) {
	m := New()
	m.ControlRequest("command")
	m.ControlRequest("command")
	m.ControlError("invalid_command")

	if got := testutil.ToFloat64(m.controlRequests.WithLabelValues("command")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.controlErrors.WithLabelValues("invalid_command")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	clients := 3
	m.Gauge("cleaner_status_clients", "Connected status stream clients.", func() int { return clients })
	m.ControlRequest("ping")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		"cleaner_status_clients 3",
		`cleaner_control_requests_total{type="ping"} 1`,
		"# TYPE cleaner_status_clients gauge",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// Should not panic
	m.ControlRequest("command")
	m.ControlError("bad_request")
	m.ObserveEvent(telemetry.Event{Kind: telemetry.KindReset})
	m.Gauge("x", "y", func() int { return 0 })
}
