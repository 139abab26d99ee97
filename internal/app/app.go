package app

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/engine"
	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/internal/registry"
	"github.com/dirigo/dirigent/internal/service"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	funcs  *handlers.Registry
	config *Config

	// healthy tracks whether the most recent compile succeeded; the
	// healthcheck endpoint reads it.
	healthy atomic.Bool
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and handler
// registry. Duplicate handler names across modules are programmer errors and
// panic, like every handler registration.
func New(outW io.Writer, cfg *Config, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	funcs := handlers.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(funcs)
	}
	logger.Debug("All handler modules registered.", "modules", len(modules), "handlers", funcs.Len())

	return &App{
		outW:   outW,
		logger: logger,
		funcs:  funcs,
		config: cfg,
	}
}

// Handlers returns the application's handler registry. This is primarily for
// testing.
func (a *App) Handlers() *handlers.Registry {
	return a.funcs
}

// Plan is the realized result of one compile: the workspace plus its services
// in dependency order, extended services first.
type Plan struct {
	Workspace *engine.Workspace
	Services  []*service.Service
}

// Compile loads the workspace and commits it as a single transaction: every
// directive is expanded, distributed, checked for conflicts, resolved across
// extends, and applied. The first error aborts the commit and is returned
// unmodified, so callers can inspect conflicts and cycles.
func (a *App) Compile(ctx context.Context) (*Plan, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	ws, err := engine.LoadWorkspace(ctx, a.config.WorkspacePath, a.funcs)
	if err != nil {
		return nil, err
	}

	r := registry.New()
	if err := ws.Provide(r); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx); err != nil {
		return nil, err
	}

	// A committed registry always orders; the commit already walked the
	// extends graph.
	ordered, err := r.Ordered()
	if err != nil {
		return nil, err
	}
	services := make([]*service.Service, 0, len(ordered))
	for _, c := range ordered {
		if svc, ok := c.Host().(*service.Service); ok {
			services = append(services, svc)
		}
	}

	a.logger.Info("Workspace committed.", "services", len(services))
	return &Plan{Workspace: ws, Services: services}, nil
}
