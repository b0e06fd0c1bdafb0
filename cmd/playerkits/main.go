package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spounge-ai/playerkits/internal/app/grpc"
	infra_config "github.com/spounge-ai/playerkits/internal/infra/config"
	"github.com/spounge-ai/playerkits/internal/wiring"
	"github.com/spounge-ai/playerkits/pkg/patterns/lifecycle"
)

const shutdownTimeout = 10 * time.Second

func main() {
	interactive := flag.Bool("console", false, "read console commands from stdin")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := infra_config.Load(os.Getenv("PLAYERKITS_CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := wiring.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	tlsConfig, err := wiring.ConfigureTLS(cfg.Server.TLS)
	if err != nil {
		logger.Error("failed to configure TLS", "error", err)
		os.Exit(1)
	}

	container, err := wiring.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build dependencies", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	admin := grpc.NewAdminService(grpc.AdminDeps{
		Kits:            container.KitService,
		Console:         container.Console,
		Presence:        container.Presence,
		Outbox:          container.Outbox,
		Logger:          logger,
		ErrorClassifier: container.ErrorClassifier,
	})

	var tokens grpc.TokenValidator
	if container.Tokens != nil {
		tokens = container.Tokens
	}
	srv, port, err := grpc.New(cfg, admin, tokens, container.Readiness, tlsConfig, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	resources := append(container.Resources(), lifecycle.Named{Name: "grpc", Resource: srv})
	group := lifecycle.NewGroup(resources...)

	logger.Info("starting application resources")
	if err := group.Start(ctx); err != nil {
		logger.Error("error starting resources", "error", err)
		os.Exit(1)
	}
	logger.Info("application started successfully",
		"port", port, "version", cfg.ServiceVersion, "commit", cfg.BuildCommit, "ready", container.Readiness.Ready())

	if *interactive {
		go func() {
			if err := container.Console.Run(ctx, os.Stdin, os.Stdout); err != nil {
				logger.Error("console stopped", "error", err)
			}
		}()
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-signalChan:
		logger.Info("received shutdown signal", "signal", s.String())
	case <-ctx.Done():
		logger.Info("context cancelled, initiating shutdown")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	logger.Info("shutting down application resources")
	if err := group.Stop(shutdownCtx); err != nil {
		logger.Error("error stopping resources", "error", err)
	}
	logger.Info("shutdown complete")
}
