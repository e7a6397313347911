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
	log, cfg := a.Log, a.Cfg

	r := router.NewAPIEngine(log, a.Services, a.JWT, cfg.Limits, cfg.App.CORSOrigins)
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r, cfg.App.HTTP.ReadTimeout(), cfg.App.HTTP.WriteTimeout(), cfg.App.HTTP.IdleTimeout())

	host := cfg.App.HTTP.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	base := fmt.Sprintf("http://%s:%d", host, cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("health", base+"/health"),
		zap.String("api", base+"/api"),
	)

	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("api stopped with error", zap.Error(err))
		return
	}
	log.Info("api stopped gracefully")
}
