package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aeroops/flightcore/internal/api"
	"github.com/aeroops/flightcore/internal/config"
	"github.com/aeroops/flightcore/internal/dynamics"
	"github.com/aeroops/flightcore/internal/engine"
	"github.com/aeroops/flightcore/internal/fuel"
	"github.com/aeroops/flightcore/internal/logging"
	"github.com/aeroops/flightcore/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Printf("server exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.New(cfg.Log.Level, cfg.Log.Dir)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		return err
	}

	dynCfg := dynamics.DefaultPointMassConfig()
	dynCfg.NoiseAmp = cfg.Sim.NoiseAmp
	dynCfg.Seed = cfg.Sim.Seed

	eng := engine.New(engine.Config{
		Spec:    cfg.Aircraft.Spec(),
		Initial: cfg.Aircraft.InitialConditions(),
		Seed:    cfg.Sim.Seed,
		Logger:  logger,
		Metrics: metrics,
	}, dynamics.NewPointMass(dynCfg), fuel.NewStaticEnvelope())

	runner := engine.NewRunner(eng, engine.RunnerConfig{TickInterval: cfg.Sim.TickInterval}, logger)
	go func() {
		if err := runner.Start(ctx); !errors.Is(err, context.Canceled) {
			logger.Error("tick loop stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewServer(eng, metrics, logger).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
