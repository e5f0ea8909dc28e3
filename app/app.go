// app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atgs/landing/config"
	"github.com/atgs/landing/logging"
	"github.com/atgs/landing/metrics"
	"github.com/atgs/landing/server"
	"go.uber.org/zap"
)

// Hooks are the pieces a site supplies to Run.
//
// C is the site's own config type and D the bundle of long-lived
// dependencies built from it (theme, encoder, limiters, ...).
type Hooks[C any, D any] struct {
	// Name appears in log lines only.
	Name string

	// LoadConfig returns the core config and the site config. It normally
	// wraps config.Load.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, C, error)

	// Prepare builds D. ctx lives until shutdown begins, so background
	// work started here should stop when it is done.
	Prepare func(ctx context.Context, core *config.CoreConfig, cfg C, logger *zap.Logger) (D, error)

	// BuildHandler returns the complete handler: router, middleware, routes.
	BuildHandler func(core *config.CoreConfig, cfg C, deps D, logger *zap.Logger) (http.Handler, error)
}

// Run performs the startup sequence and then serves until ctx is canceled
// or SIGINT/SIGTERM arrives:
//
//  1. bootstrap logger
//  2. LoadConfig
//  3. final logger from log_level/env
//  4. metrics registration
//  5. signal-aware context
//  6. Prepare
//  7. BuildHandler
//  8. server.ListenAndServe
func Run[C any, D any](ctx context.Context, hooks Hooks[C, D]) error {
	boot := logging.BootstrapLogger()
	defer func() { _ = boot.Sync() }()

	core, cfg, err := hooks.LoadConfig(boot)
	if err != nil {
		boot.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}
	boot.Info("config loaded", zap.String("env", core.Env), zap.String("log_level", core.LogLevel))

	logger, err := logging.BuildLogger(core.LogLevel, core.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("app", hooks.Name))
	logger.Debug("effective core config", zap.String("config", core.Dump()))

	metrics.RegisterDefault(logger)

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	deps, err := hooks.Prepare(ctx, core, cfg, logger)
	if err != nil {
		logger.Error("prepare failed", zap.Error(err))
		return fmt.Errorf("prepare: %w", err)
	}

	handler, err := hooks.BuildHandler(core, cfg, deps, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	if err := server.ListenAndServe(ctx, core, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	return nil
}
