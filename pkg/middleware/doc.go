// Package middleware provides the HTTP middleware stack of an adminkit
// server.
//
// This package includes:
//   - OpenTelemetry tracing of every request
//   - Prometheus request metrics keyed by chi route pattern
//   - Structured request logging with log/slog
//
// All three are plain func(http.Handler) http.Handler values and compose
// with chi's own middleware:
//
//	r := chi.NewRouter()
//	r.Use(chimw.RequestID, chimw.Recoverer)
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("my-admin")))
//	r.Use(middleware.Metrics(m))
//	r.Use(middleware.Logger(logger))
//
// # Context Propagation
//
// The tracing middleware stores the span on the request context, so
// loaders and drawer components inherit the trace:
//
//	func loadProducts(ctx context.Context) (module.Component, error) {
//	    req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)
//	    ...
//	}
package middleware
