package engine

import (
	"context"
	"log/slog"
	"time"
)

// RunnerConfig holds configuration for the Runner.
type RunnerConfig struct {
	TickInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{TickInterval: 250 * time.Millisecond}
}

// Runner drives the engine's tick loop at a fixed interval. It is the only
// caller of Update in a running process, which satisfies the one-tick-at-a-
// time contract.
type Runner struct {
	eng *Engine
	cfg RunnerConfig
	log *slog.Logger
}

// NewRunner creates a Runner for the given engine.
func NewRunner(eng *Engine, cfg RunnerConfig, log *slog.Logger) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultRunnerConfig().TickInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{eng: eng, cfg: cfg, log: log}
}

// Start blocks, ticking the engine until ctx is cancelled. A failed tick is
// logged and skipped; the simulation keeps running on the previous state.
func (r *Runner) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.eng.Update(); err != nil {
				r.log.Error("tick failed", "error", err)
			}
		}
	}
}
