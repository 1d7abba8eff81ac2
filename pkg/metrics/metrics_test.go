package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/adminkit/pkg/drawer"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObservePage("products", ResultFound, time.Millisecond)
	m.DrawerOpened(drawer.Instance{Type: "x"}, 1)
	m.DrawersClosed([]drawer.Instance{{Type: "x"}})
	m.CloseRequest(drawer.Closed)
	m.SessionStarted()
	m.SessionEnded(true)
	m.HTTPRequest("GET", "/", 200, time.Millisecond)
	m.StreamOpened()
	m.StreamClosed()

	h := m.StoreHooks()
	h.OnOpen(drawer.Instance{Type: "x"}, 1)
	h.OnClose(nil)
}

func TestPageResolutions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePage("products", ResultFound, 2*time.Millisecond)
	m.ObservePage("products", ResultFound, 3*time.Millisecond)
	m.ObservePage("", ResultNotFound, time.Millisecond)

	if got := testutil.ToFloat64(m.pageResolutions.WithLabelValues("products", ResultFound)); got != 2 {
		t.Errorf("found = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.pageResolutions.WithLabelValues("", ResultNotFound)); got != 1 {
		t.Errorf("not_found = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.pageDuration); n != 1 {
		t.Errorf("duration series = %d", n)
	}
}

func TestStoreHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	s := drawer.NewStore(drawer.WithHooks(m.StoreHooks()))

	a := s.Open("product", nil)
	s.Open("product", nil)
	s.Open("category", nil)
	s.Close(a)

	if got := testutil.ToFloat64(m.drawerOpens.WithLabelValues("product")); got != 2 {
		t.Errorf("product opens = %v", got)
	}
	if got := testutil.ToFloat64(m.drawerCloses.WithLabelValues("product")); got != 2 {
		t.Errorf("product closes = %v", got)
	}
	if got := testutil.ToFloat64(m.drawerCloses.WithLabelValues("category")); got != 1 {
		t.Errorf("category closes = %v", got)
	}
}

func TestSessionsAndRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, WithNamespace("test"))

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded(true)
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active = %v", got)
	}
	if got := testutil.ToFloat64(m.sessionsEvicted); got != 1 {
		t.Errorf("evicted = %v", got)
	}

	m.HTTPRequest("GET", "/_admin/drawers", 200, time.Millisecond)
	m.HTTPRequest("DELETE", "/_admin/drawers/{id}", 409, time.Millisecond)
	m.HTTPRequest("GET", "", 404, time.Millisecond)

	expected := `
# HELP test_http_requests_total Total HTTP requests by method, route pattern and status class
# TYPE test_http_requests_total counter
test_http_requests_total{method="DELETE",route="/_admin/drawers/{id}",status="4xx"} 1
test_http_requests_total{method="GET",route="/_admin/drawers",status="2xx"} 1
test_http_requests_total{method="GET",route="unmatched",status="4xx"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"); err != nil {
		t.Error(err)
	}

	m.CloseRequest(drawer.Declined)
	if got := testutil.ToFloat64(m.closeRequests.WithLabelValues("declined")); got != 1 {
		t.Errorf("declined = %v", got)
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two apps in one process must not collide.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func TestStatusClass(t *testing.T) {
	for status, want := range map[int]string{101: "1xx", 204: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"} {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
