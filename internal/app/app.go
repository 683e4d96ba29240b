package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/metrics"
	"github.com/specialistvlad/stagegrid/internal/process"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "stagegrid"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *prometheus.Registry
	metrics    *metrics.Collector
	runner     process.Runner
	httpServer *http.Server
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the shell runner used for stage commands.
func WithRunner(r process.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and metrics registry.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  metrics.NewCollector(reg, metricsNamespace),
		runner:   process.NewShell(cfg.BaseDir),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the application's metrics registry. This is primarily for testing.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// context attaches the app logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// path resolves p against the base directory.
func (a *App) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.config.BaseDir, p)
}
