// Package app wires configuration, storage and services for the binaries in
// cmd/.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"customer-order-api/internal/core/auth"
	"customer-order-api/internal/core/cache"
	"customer-order-api/internal/core/config"
	"customer-order-api/internal/core/database"
	"customer-order-api/internal/core/logger"
	"customer-order-api/internal/repo"
	"customer-order-api/internal/service"
	"customer-order-api/internal/transport/http/router"
	"customer-order-api/internal/validation"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Services router.Services

	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New reads config and builds everything short of the HTTP engine. On error
// whatever was already opened is closed.
func New(ctx context.Context, cfgPath string) (a *App, err error) {
	cfg, err := config.Read(cfgPath)
	if err != nil {
		return nil, err
	}
	a = &App{Cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	var rotate *logger.FileRotate
	if cfg.Log.File != "" {
		rotate = &logger.FileRotate{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	l, flush := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate:      rotate,
	})
	a.Log = l.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	a.closers = append(a.closers, flush, logger.RedirectStdLog(a.Log, zapcore.InfoLevel))

	// gin's route table and debug warnings go through zap as well
	prevOut, prevErr := gin.DefaultWriter, gin.DefaultErrorWriter
	gin.DefaultWriter = logger.ToWriter(a.Log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(a.Log, zapcore.ErrorLevel)
	a.closers = append(a.closers, func() { gin.DefaultWriter, gin.DefaultErrorWriter = prevOut, prevErr })

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
	}, a.Log)
	if err != nil {
		return a, err
	}
	a.DB = db
	a.closers = append(a.closers, func() { _ = database.Close(db) })
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return a, fmt.Errorf("automigrate: %w", err)
		}
		a.Log.Info("automigrate done")
	}

	gw, rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, a.Log)
	if rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		if perr := rdb.Ping(ctx).Err(); perr != nil {
			a.Log.Warn("redis unreachable, caching degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(perr))
		}
	} else {
		a.Log.Info("redis not configured, caching disabled")
	}

	if err := validation.Register(); err != nil {
		return a, err
	}

	a.JWT = &auth.JWTer{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.AccessTTL(),
	}

	customers := repo.NewCustomerRepo(db)
	users := repo.NewUserRepo(db)
	a.Services = router.Services{
		Customers: service.NewCustomerService(customers, gw, a.Log),
		Orders:    service.NewOrderService(repo.NewOrderRepo(db), customers, gw, a.Log),
		Auth:      service.NewAuthService(users, a.JWT, cfg.JWT.RefreshTTL(), a.Log),
		Users:     service.NewUserService(users, a.Log),
	}

	if cfg.Seed.AdminUsername != "" {
		if err := a.Services.Auth.EnsureAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
			return a, fmt.Errorf("seed admin: %w", err)
		}
	}
	return a, nil
}
