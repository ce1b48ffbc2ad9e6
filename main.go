package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/app"
	"github.com/km-arc/go-sahara/framework/container"
	kernel "github.com/km-arc/go-sahara/framework/app"
)

func main() {
	application, err := kernel.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := application.Logger()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Application services ──────────────────────────────────────────────────

	if err := application.Register(ctx, &app.AppServiceProvider{}); err != nil {
		log.Fatal("register", zap.Error(err))
	}
	if err := application.Boot(ctx); err != nil {
		log.Fatal("boot", zap.Error(err))
	}

	// ── Resolve and call through the interception layer ───────────────────────

	worker, err := container.ResolveAs[*app.Worker](ctx, application.Container, app.KeyWorker)
	if err != nil {
		log.Fatal("resolve worker", zap.Error(err))
	}
	out, err := worker.DoWork(ctx, 21)
	if err != nil {
		log.Fatal("do work", zap.Error(err))
	}
	log.Info("demo", zap.Int("result", out))

	// ── Inspection API ────────────────────────────────────────────────────────

	if err := application.Run(ctx); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
