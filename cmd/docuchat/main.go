// Package main is the entry point for the terminal client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/docuchat/assistant-cli/internal/api"
	"github.com/docuchat/assistant-cli/internal/config"
	"github.com/docuchat/assistant-cli/internal/debug"
	"github.com/docuchat/assistant-cli/internal/store"
	"github.com/docuchat/assistant-cli/internal/ui"
	"github.com/docuchat/assistant-cli/pkg/logger"
	"github.com/docuchat/assistant-cli/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "docuchat-cli", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	// Optional metrics listener for long-lived sessions
	if cfg.MetricsAddr != "" {
		dbg := debug.New(cfg.MetricsAddr, log)
		dbg.Start()
		defer dbg.Stop(context.Background())
	}

	// Backend client and the two stores
	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, log)
	docs := store.NewDocumentStore(client, log)
	chat := store.NewChatSession(client, log)

	// Connectivity probe; the session starts either way, every operation
	// surfaces its own errors.
	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: backend not reachable at %s (%s)\n", cfg.APIBaseURL, api.Message(err))
	}

	repl := ui.New(docs, chat, client, log)
	if err := repl.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("session ended with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("session ended")
}
