package adminkit

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/adminkit/internal/config"
	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/session"
)

// Config is the runtime configuration of an App.
type Config struct {
	// Name is shown in the layout header.
	Name string

	// Modules holds the page modules. If nil, an empty registry is used.
	Modules *module.Registry

	// Drawers holds the drawer definitions. If nil, an empty registry is used.
	Drawers *drawer.Registry

	// Server configures the HTTP server started by Run.
	Server ServerConfig

	// Session configures the per-session drawer stacks.
	Session session.ManagerConfig

	// Drawer configures drawer rendering.
	Drawer DrawerConfig

	// Metrics configures Prometheus collection.
	Metrics MetricsConfig

	// TracerProvider overrides the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider

	// PrettyHTML indents rendered pages.
	PrettyHTML bool

	// Preload loads every lazy module when Run starts.
	Preload bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DrawerConfig configures drawer rendering.
type DrawerConfig struct {
	// DefaultWidth applies to definitions without a width.
	DefaultWidth int

	// Prompt overrides the default dirty-close prompt.
	Prompt drawer.Prompt

	// Suspense renders a placeholder while a drawer component loads
	// instead of waiting for it.
	Suspense bool
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	// Enabled mounts the metrics endpoint.
	Enabled bool

	// Path is the metrics endpoint path (default "/metrics").
	Path string

	// Namespace prefixes every metric (default "adminkit").
	Namespace string

	// Registry receives the collectors and is served on Path. If nil, a
	// fresh registry with Go and process collectors is used.
	Registry *prometheus.Registry
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return ConfigFromFile(config.New())
}

// ConfigFromFile converts a project configuration file into a runtime
// Config. Registries and the logger are left for the caller to set.
func ConfigFromFile(fc *config.Config) Config {
	return Config{
		Name: fc.Name,
		Server: ServerConfig{
			Addr:            fc.Address(),
			ReadTimeout:     fc.ReadTimeout(),
			WriteTimeout:    fc.WriteTimeout(),
			ShutdownTimeout: fc.ShutdownTimeout(),
		},
		Session: session.ManagerConfig{
			CookieName:   fc.Session.CookieName,
			CookieSecure: fc.Session.CookieSecure,
			MaxSessions:  fc.Session.MaxSessions,
			IdleTimeout:  fc.IdleTimeout(),
		},
		Drawer: DrawerConfig{
			DefaultWidth: fc.Drawers.DefaultWidth,
			Prompt: drawer.Prompt{
				Title:   fc.Drawers.ConfirmTitle,
				Message: fc.Drawers.ConfirmMessage,
			},
			Suspense: fc.Drawers.Suspense,
		},
		Metrics: MetricsConfig{
			Enabled:   fc.MetricsEnabled(),
			Path:      fc.Metrics.Path,
			Namespace: fc.Metrics.Namespace,
		},
		PrettyHTML: fc.Dev.PrettyHTML,
		Preload:    fc.Dev.Preload,
	}
}

// NewLogger builds a logger from the log section of a configuration file.
// A nil w writes to stderr.
func NewLogger(fc config.LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Level
	switch fc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if fc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
