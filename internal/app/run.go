package app

import (
	"context"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/watcher"
)

// Run executes the main application lifecycle: compile the workspace, report
// the outcome, and, in watch mode, keep recompiling on workspace changes
// until the context is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	plan, err := a.Compile(ctx)
	a.healthy.Store(err == nil)
	if err != nil {
		a.reportError(err)
		// Watch mode keeps running on a broken workspace; the next edit
		// may fix it.
		if !a.config.Watch {
			return err
		}
	} else {
		a.reportSummary(plan)
	}

	if !a.config.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	return a.watch(ctx)
}

// watch blocks, recompiling the workspace on every change notification.
func (a *App) watch(ctx context.Context) error {
	w, err := watcher.New(watcher.DefaultConfig(a.config.WorkspacePath))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}
	a.logger.Info("👀 Watching workspace for changes.", "path", a.config.WorkspacePath)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watch loop stopping.", "reason", ctx.Err())
			return nil
		case <-onChange:
			a.logger.Info("Workspace changed, recompiling.")
			plan, err := a.Compile(ctx)
			a.healthy.Store(err == nil)
			if err != nil {
				a.reportError(err)
				continue
			}
			a.reportSummary(plan)
		}
	}
}
