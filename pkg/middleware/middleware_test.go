package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/adminkit/pkg/metrics"
)

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/span", func(w http.ResponseWriter, r *http.Request) {
		if !trace.SpanFromContext(r.Context()).SpanContext().IsValid() {
			http.Error(w, "no span", http.StatusTeapot)
		}
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Metrics(metrics.New(reg, metrics.WithNamespace("mw"))))

	serve(r, "/items/1")
	serve(r, "/items/2")
	serve(r, "/boom")
	serve(r, "/missing")

	expected := `
# HELP mw_http_requests_total Total HTTP requests by method, route pattern and status class
# TYPE mw_http_requests_total counter
mw_http_requests_total{method="GET",route="/boom",status="5xx"} 1
mw_http_requests_total{method="GET",route="/items/{id}",status="2xx"} 2
mw_http_requests_total{method="GET",route="unmatched",status="4xx"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mw_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestOpenTelemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := newRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithFilter(func(r *http.Request) bool { return r.URL.Path != "/span" || r.URL.Query().Get("skip") == "" }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	if rec := serve(r, "/span"); rec.Code != http.StatusOK {
		t.Fatalf("handler saw no span: %d", rec.Code)
	}
	serve(r, "/items/7")
	serve(r, "/boom")
	serve(r, "/span?skip=1")

	spans := recorder.Ended()
	if len(spans) != 3 {
		t.Fatalf("ended spans = %d, want 3", len(spans))
	}

	item := spans[1]
	if item.Name() != "HTTP GET /items/{id}" {
		t.Errorf("span name = %q", item.Name())
	}
	if item.SpanKind() != trace.SpanKindServer {
		t.Errorf("kind = %v", item.SpanKind())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range item.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["http.route"].AsString() != "/items/{id}" {
		t.Errorf("http.route = %v", attrs["http.route"])
	}
	if attrs["test.attr"].AsString() != "ok" {
		t.Errorf("custom attribute missing: %v", attrs)
	}
	if attrs["adminkit.request_id"].AsString() == "" {
		t.Error("request id attribute missing")
	}
	if item.Status().Code != codes.Ok {
		t.Errorf("status = %v", item.Status())
	}
	if spans[2].Status().Code != codes.Error {
		t.Errorf("5xx status = %v", spans[2].Status())
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(Logger(logger))

	serve(r, "/items/1")
	serve(r, "/boom")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=request component=http method=GET path=/items/1 status=200",
		"level=ERROR msg=request component=http method=GET path=/boom status=500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q in:\n%s", want, out)
		}
	}
}
