// Package page resolves request paths to rendered page modules.
package page

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/metrics"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/routepath"
	"github.com/vango-dev/adminkit/pkg/view"
)

// ErrNotFound is returned when no module matches a path. Callers map it to
// a 404. Compare with errors.Is.
var ErrNotFound = aerrors.New("E022")

// Page is a resolved and rendered page.
type Page struct {
	Record      *module.Record
	Props       module.Props
	Title       string
	Description *view.Node
	Body        *view.Node
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger.With("component", "page-resolver")
		}
	}
}

// WithTracerProvider sets the tracer provider (default: the global one).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Resolver) {
		if tp != nil {
			r.tracer = tp.Tracer("adminkit")
		}
	}
}

// WithMetrics records resolutions on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// Resolver turns request paths into pages using a module registry.
type Resolver struct {
	registry *module.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *module.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		logger:   slog.Default().With("component", "page-resolver"),
		tracer:   otel.Tracer("adminkit"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the underlying module registry.
func (r *Resolver) Registry() *module.Registry { return r.registry }

// Match canonicalizes pathname and finds the module route serving it.
// Malformed paths are not found.
func (r *Resolver) Match(pathname string) (*module.Match, routepath.Path, error) {
	p, err := routepath.Canonicalize(pathname)
	if err != nil {
		return nil, routepath.Path{}, aerrors.New("E022").WithField("path", pathname).Wrap(err)
	}
	m, ok := r.registry.MatchPath(p.Pathname)
	if !ok {
		return nil, p, aerrors.New("E022").WithField("path", p.Pathname)
	}
	return m, p, nil
}

// Resolve matches pathname, loads the module component and renders it.
func (r *Resolver) Resolve(ctx context.Context, pathname string, query url.Values) (*Page, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "adminkit.page.resolve",
		trace.WithAttributes(attribute.String("adminkit.path", pathname)),
	)
	defer span.End()

	m, p, err := r.Match(pathname)
	if err != nil {
		span.SetStatus(codes.Ok, "not found")
		r.metrics.ObservePage("", metrics.ResultNotFound, time.Since(start))
		return nil, err
	}
	rec := m.Record
	span.SetAttributes(
		attribute.String("adminkit.module", rec.Module),
		attribute.String("adminkit.route", rec.Path),
		attribute.String("adminkit.load_state", rec.LoadState().String()),
	)

	component, err := rec.Component(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		r.metrics.ObservePage(rec.Module, metrics.ResultError, time.Since(start))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		r.logger.Error("module loader failed", "module", rec.Module, "route", rec.Key, "error", err)
		return nil, aerrors.New("E030").
			WithField("module", rec.Module).
			WithField("route", rec.Key).
			Wrap(err)
	}

	props := module.Props{
		Pathname: p.Pathname,
		Segments: p.Segments,
		Query:    query,
		Params:   m.Params,
	}
	if props.Query == nil {
		props.Query = url.Values{}
	}

	page := &Page{
		Record: rec,
		Props:  props,
		Title:  rec.Title,
		Body:   component(ctx, props),
	}
	if rec.Description != "" {
		desc, err := view.Markdown(rec.Description)
		if err != nil {
			r.logger.Warn("module description is not valid markdown", "module", rec.Module, "error", err)
			desc = view.P(rec.Description)
		}
		page.Description = desc
	}

	span.SetStatus(codes.Ok, "")
	r.metrics.ObservePage(rec.Module, metrics.ResultFound, time.Since(start))
	return page, nil
}

// Prefetch starts loading the component serving pathname without waiting
// for it. Unknown paths are ignored.
func (r *Resolver) Prefetch(ctx context.Context, pathname string) {
	m, _, err := r.Match(pathname)
	if err != nil {
		return
	}
	m.Record.Prefetch(ctx)
}
