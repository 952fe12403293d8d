// Command coral-relay runs the worker-style agent: an infinite loop that
// polls the hub for mentions addressed to this agent, dispatches each one
// through the reasoning engine and replies into the originating thread.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/coralmesh"
	"github.com/hupe1980/coralmesh/config"
	"github.com/hupe1980/coralmesh/logging"
)

func main() {
	var (
		envFile  = flag.String("env-file", ".env", "dotenv file consulted outside an orchestration runtime")
		logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := logging.NewSlogLogger(logging.ParseLogLevel(*logLevel), "json", false)

	cfg, err := config.Load(func(o *config.Options) {
		o.EnvFile = *envFile
		o.AgentDescription = "Relay agent that executes instructions received as thread mentions"
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

	if err := mesh.RelayLoop().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "relay loop stopped: %v\n", err)
		os.Exit(1)
	}
}
