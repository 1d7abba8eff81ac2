package module

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/lazy"
	"github.com/vango-dev/adminkit/pkg/pathmatch"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMatchOptions applies pathmatch options to every compiled pattern.
func WithMatchOptions(opts ...pathmatch.Option) Option {
	return func(r *Registry) {
		r.matchOpts = append(r.matchOpts, opts...)
	}
}

// moduleEntry keeps module-level sidebar data next to its records.
type moduleEntry struct {
	key     string
	domain  string
	sidebar *Sidebar
	records []*Record

	// own is set when records[0] is the module's own route.
	own bool
}

// Registry maps paths to page modules. It is safe for concurrent use.
type Registry struct {
	logger    *slog.Logger
	matchOpts []pathmatch.Option

	mu          sync.RWMutex
	records     []*Record
	byKey       map[string]*Record
	modules     []*moduleEntry
	domains     map[string]Domain
	domainOrder []string
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:  slog.Default(),
		byKey:   make(map[string]*Record),
		domains: make(map[string]Domain),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "module-registry")
	return r
}

// RegisterDomain inserts or replaces a domain by key.
func (r *Registry) RegisterDomain(d Domain) error {
	if d.Key == "" {
		return aerrors.New("E021").WithDetail("domain key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.domains[d.Key]; !ok {
		r.domainOrder = append(r.domainOrder, d.Key)
	}
	r.domains[d.Key] = d
	return nil
}

// MustRegisterDomain is RegisterDomain that panics on error.
func (r *Registry) MustRegisterDomain(d Domain) {
	if err := r.RegisterDomain(d); err != nil {
		panic(err)
	}
}

// Register compiles every route of cfg and appends them in declaration
// order. Nothing is registered when any route is invalid.
func (r *Registry) Register(cfg Config) error {
	routes := cfg.routes()
	if len(routes) == 0 {
		return invalidConfig(cfg.Key, "module declares neither Path nor Items")
	}

	moduleKey := cfg.Key
	if moduleKey == "" {
		if len(cfg.Items) > 0 {
			return invalidConfig(cfg.Path, "a module with Items needs a Key")
		}
		moduleKey = routes[0].Path
	}

	records := make([]*Record, 0, len(routes))
	seen := make(map[string]bool, len(routes))
	for i, rt := range routes {
		key := rt.Key
		if key == "" {
			key = rt.Path
		}
		if i == 0 && cfg.Path != "" {
			key = moduleKey
		}
		if rt.Path == "" {
			return invalidConfig(moduleKey, fmt.Sprintf("route %d has no path", i))
		}
		if (rt.Load == nil) == (rt.Component == nil) {
			return invalidConfig(moduleKey, fmt.Sprintf("route %q must set exactly one of Load and Component", rt.Path))
		}
		if seen[key] {
			return invalidConfig(moduleKey, fmt.Sprintf("duplicate route key %q", key))
		}
		seen[key] = true

		m, err := pathmatch.Compile(rt.Path, r.matchOpts...)
		if err != nil {
			return aerrors.New("E020").
				WithDetail(err.Error()).
				WithField("module", moduleKey).
				WithField("pattern", rt.Path).
				WithSuggestion("Check braces and parameter names; escape literal characters with a backslash").
				Wrap(err)
		}

		value := lazy.New(rt.Load)
		if rt.Component != nil {
			value = lazy.Of(rt.Component)
		}

		title := rt.Title
		if title == "" && rt.Sidebar != nil {
			title = rt.Sidebar.Label
		}
		records = append(records, &Record{
			Key:         key,
			Module:      moduleKey,
			Domain:      cfg.Domain,
			Path:        rt.Path,
			Title:       title,
			Description: cfg.Description,
			Sidebar:     rt.Sidebar,
			Matcher:     m,
			component:   value,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.modules {
		if e.key == moduleKey {
			return invalidConfig(moduleKey, "module key already registered")
		}
	}
	for _, rec := range records {
		if _, ok := r.byKey[rec.Key]; ok {
			return invalidConfig(moduleKey, fmt.Sprintf("route key %q already registered", rec.Key))
		}
	}

	for _, rec := range records {
		r.byKey[rec.Key] = rec
	}
	r.records = append(r.records, records...)
	r.modules = append(r.modules, &moduleEntry{
		key:     moduleKey,
		domain:  cfg.Domain,
		sidebar: cfg.Sidebar,
		records: records,
		own:     cfg.Path != "",
	})

	r.logger.Debug("module registered", "module", moduleKey, "domain", cfg.Domain, "routes", len(records))
	return nil
}

// MustRegister is Register that panics on error. Use it from bootstrap
// code where a malformed module should stop the process.
func (r *Registry) MustRegister(cfg Config) {
	if err := r.Register(cfg); err != nil {
		panic(err)
	}
}

// routes lists the module's own route followed by its items.
func (c Config) routes() []Route {
	var out []Route
	if c.Path != "" || c.Load != nil || c.Component != nil {
		out = append(out, Route{
			Key:       c.Key,
			Path:      c.Path,
			Title:     c.Title,
			Load:      c.Load,
			Component: c.Component,
			Sidebar:   c.Sidebar,
		})
	}
	return append(out, c.Items...)
}

func invalidConfig(module, detail string) error {
	return aerrors.New("E021").WithDetail(detail).WithField("module", module)
}

// MatchPath returns the first registered route matching pathname.
func (r *Registry) MatchPath(pathname string) (*Match, bool) {
	r.mu.RLock()
	records := r.records
	r.mu.RUnlock()

	for _, rec := range records {
		if params, ok := rec.Matcher.Match(pathname); ok {
			return &Match{Record: rec, Params: params}, true
		}
	}
	return nil, false
}

// Record returns the route registered under key.
func (r *Registry) Record(key string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byKey[key]
	return rec, ok
}

// Records returns all routes in registration order.
func (r *Registry) Records() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out
}

// List returns every route pattern in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Path
	}
	return out
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Domain returns the domain registered under key.
func (r *Registry) Domain(key string) (Domain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.domains[key]
	return d, ok
}

// Domains returns all domains sorted by Order, ties in registration order.
func (r *Registry) Domains() []Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Domain, 0, len(r.domainOrder))
	for _, k := range r.domainOrder {
		out = append(out, r.domains[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Preload loads every lazy component, returning the first failure.
func (r *Registry) Preload(ctx context.Context) error {
	for _, rec := range r.Records() {
		if _, err := rec.Component(ctx); err != nil {
			return aerrors.New("E030").WithField("module", rec.Module).WithField("route", rec.Key).Wrap(err)
		}
	}
	return nil
}

// Clear removes all modules and domains.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.modules = nil
	r.byKey = make(map[string]*Record)
	r.domains = make(map[string]Domain)
	r.domainOrder = nil
}
