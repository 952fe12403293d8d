// Command coral-voice runs the coordinator-style console front end: typed
// instructions dispatch immediately, "v" runs a bounded voice session when a
// speech provider is plugged in, and every query flows through the same
// engine as the relay worker.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/coralmesh"
	"github.com/hupe1980/coralmesh/config"
	"github.com/hupe1980/coralmesh/frontend"
	"github.com/hupe1980/coralmesh/logging"
)

func main() {
	var (
		envFile  = flag.String("env-file", ".env", "dotenv file consulted outside an orchestration runtime")
		logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := logging.NewSlogLogger(logging.ParseLogLevel(*logLevel), "text", false)

	cfg, err := config.Load(func(o *config.Options) {
		o.EnvFile = *envFile
		o.AgentDescription = "Coordinator agent that relays operator instructions to the mesh"
	})
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			logger.Error("configuration invalid", "error", cfgErr.Error())
		} else {
			logger.Error("configuration load failed", "error", err.Error())
		}
		os.Exit(1)
	}

	mesh, err := coralmesh.New(cfg, func(o *coralmesh.Options) {
		o.Logger = logger.WithContext("agent_id", cfg.AgentID)
	})
	if err != nil {
		logger.Error("wiring failed", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Speech transport is pluggable; without a provider the console runs in
	// text mode only.
	sel := mesh.Frontend(frontend.NewReaderSource(os.Stdin), nil, func(o *frontend.Options) {
		o.Output = os.Stdout
	})

	if err := sel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("front end stopped", "error", err.Error())
		os.Exit(1)
	}
}
