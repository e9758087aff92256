package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aeroops/flightcore/internal/config"
	"github.com/aeroops/flightcore/internal/dynamics"
	"github.com/aeroops/flightcore/internal/engine"
	"github.com/aeroops/flightcore/internal/fuel"
	"github.com/aeroops/flightcore/internal/logging"
	internalmcp "github.com/aeroops/flightcore/internal/mcp"
)

func main() {
	if err := run(); err != nil {
		log.Printf("MCP server exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	// Stdout carries the MCP protocol, so logs must go to a file or stderr.
	logger := logging.New(cfg.Log.Level, cfg.Log.Dir)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	dynCfg := dynamics.DefaultPointMassConfig()
	dynCfg.NoiseAmp = cfg.Sim.NoiseAmp
	dynCfg.Seed = cfg.Sim.Seed

	eng := engine.New(engine.Config{
		Spec:    cfg.Aircraft.Spec(),
		Initial: cfg.Aircraft.InitialConditions(),
		Seed:    cfg.Sim.Seed,
		Logger:  logger,
	}, dynamics.NewPointMass(dynCfg), fuel.NewStaticEnvelope())

	runner := engine.NewRunner(eng, engine.RunnerConfig{TickInterval: cfg.Sim.TickInterval}, logger)
	go func() {
		if err := runner.Start(ctx); !errors.Is(err, context.Canceled) {
			logger.Error("tick loop stopped", "error", err)
		}
	}()

	if err := internalmcp.NewServer(eng).Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
