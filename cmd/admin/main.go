package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"customer-order-api/internal/app"
	"customer-order-api/internal/core/server"
	"customer-order-api/internal/transport/http/router"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}
	defer a.Close()
	log, cfg := a.Log.Named("admin"), a.Cfg

	r := router.NewAdminEngine(log, a.Services, a.JWT, cfg.Limits)
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, cfg.App.Admin.ReadTimeout(), cfg.App.Admin.WriteTimeout(), cfg.App.Admin.IdleTimeout())
	log.Info("admin starting", zap.String("addr", addr), zap.String("prefix", "/admin/v1"))

	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("admin stopped with error", zap.Error(err))
		return
	}
	log.Info("admin stopped gracefully")
}
