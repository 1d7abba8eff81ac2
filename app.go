package adminkit

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/metrics"
	"github.com/vango-dev/adminkit/pkg/middleware"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/page"
	"github.com/vango-dev/adminkit/pkg/session"
	"github.com/vango-dev/adminkit/pkg/view"
)

// App is the admin panel. It implements http.Handler.
type App struct {
	config Config
	logger *slog.Logger

	modules  *module.Registry
	drawers  *drawer.Registry
	resolver *page.Resolver
	renderer *drawer.Renderer
	sessions *session.Manager
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	html     *view.Renderer

	router chi.Router

	streamsMu sync.Mutex
	streams   map[*websocket.Conn]struct{}
	closing   bool
}

// New creates an App. Call Close (or let Run return) to stop its
// background work.
func New(cfg Config) *App {
	defaults := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Modules == nil {
		cfg.Modules = module.NewRegistry()
	}
	if cfg.Drawers == nil {
		cfg.Drawers = drawer.NewRegistry()
	}
	if cfg.Server.Addr == "" {
		cfg.Server = defaults.Server
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaults.Metrics.Path
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if cfg.Drawer.DefaultWidth == 0 {
		cfg.Drawer.DefaultWidth = defaults.Drawer.DefaultWidth
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	promReg := cfg.Metrics.Registry
	if promReg == nil {
		promReg = prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	met := metrics.New(promReg, metrics.WithNamespace(cfg.Metrics.Namespace))

	a := &App{
		config:   cfg,
		logger:   logger.With("component", "app"),
		modules:  cfg.Modules,
		drawers:  cfg.Drawers,
		metrics:  met,
		registry: promReg,
		html:     &view.Renderer{Pretty: cfg.PrettyHTML},
		streams:  make(map[*websocket.Conn]struct{}),
	}

	a.resolver = page.NewResolver(cfg.Modules,
		page.WithLogger(logger),
		page.WithMetrics(met),
		page.WithTracerProvider(cfg.TracerProvider),
	)
	a.renderer = drawer.NewRenderer(cfg.Drawers,
		drawer.WithLogger(logger),
		drawer.WithDefaultWidth(cfg.Drawer.DefaultWidth),
		drawer.WithPrompt(cfg.Drawer.Prompt),
		drawer.WithSuspense(cfg.Drawer.Suspense),
	)
	a.sessions = session.NewManager(cfg.Session, logger,
		session.WithMetrics(met),
		session.WithStoreOptions(drawer.WithHooks(met.StoreHooks())),
	)
	a.router = a.routes()
	return a
}

// routes builds the chi router.
func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithTracerProvider(a.config.TracerProvider)))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.Logger(a.logger))

	r.Get("/healthz", a.handleHealth)
	if a.config.Metrics.Enabled {
		r.Handle(a.config.Metrics.Path, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/_admin", func(r chi.Router) {
		r.Get("/assets/*", a.handleAsset)
		r.Get("/routes", a.handleRoutes)
		r.Get("/sidebar", a.handleSidebar)
		r.Get("/drawer-types", a.handleDrawerTypes)
		r.Get("/ws", a.handleStream)

		r.Route("/drawers", func(r chi.Router) {
			r.Get("/", a.handleListDrawers)
			r.Post("/", a.handleOpenDrawer)
			r.Delete("/", a.handleCloseAll)
			r.Delete("/top", a.handleCloseTop)
			r.Get("/{id}", a.handleGetDrawer)
			r.Delete("/{id}", a.handleCloseDrawer)
			r.Put("/{id}/dirty", a.handleSetDirty)
			r.Patch("/{id}/payload", a.handleUpdatePayload)
			r.Get("/{id}/html", a.handleDrawerHTML)
		})
	})

	r.Get("/*", a.handlePage)
	return r
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Handler returns the app as an http.Handler.
func (a *App) Handler() http.Handler { return a }

// Modules returns the module registry.
func (a *App) Modules() *module.Registry { return a.modules }

// Drawers returns the drawer registry.
func (a *App) Drawers() *drawer.Registry { return a.drawers }

// Resolver returns the page resolver.
func (a *App) Resolver() *page.Resolver { return a.resolver }

// Renderer returns the drawer renderer.
func (a *App) Renderer() *drawer.Renderer { return a.renderer }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Metrics returns the app's collectors.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Run serves on cfg.Server.Addr until ctx ends, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Server.Addr)
	if err != nil {
		return aerrors.New("E140").WithDetail("listen on " + a.config.Server.Addr).Wrap(err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends. The listener is closed on return.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if a.config.Preload {
		if err := a.modules.Preload(ctx); err != nil {
			ln.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:      a,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
		ErrorLog:     slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("admin server listening",
			"addr", ln.Addr().String(),
			"modules", a.modules.Len(),
			"drawer_types", a.drawers.Len(),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return aerrors.New("E140").Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := a.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		a.logger.Info("shutting down admin server")
		err := srv.Shutdown(shutdownCtx)
		if cerr := a.Close(shutdownCtx); err == nil {
			err = cerr
		}
		return err
	})
	return g.Wait()
}

// Close ends open drawer streams and stops the session manager. It is
// safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	a.closeStreams()
	return a.sessions.Shutdown(ctx)
}
