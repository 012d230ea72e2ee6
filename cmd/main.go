// @title Employee Vaccine Inventory API
// @version 1.0
// @description Employee profiles and their vaccination records

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/1997daniela/employeeVaccineInventory/docs" // This is required for swagger
	"github.com/1997daniela/employeeVaccineInventory/internal/cache"
	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/handlers"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
	"github.com/1997daniela/employeeVaccineInventory/internal/routes"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
)

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// --- Storage ---
	var store repository.Store
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		pool, err := repository.NewPool(ctx, cfg)
		if err != nil {
			cancel()
			logger.Fatal("connect to database", zap.Error(err))
		}
		pg := repository.NewPostgresStore(pool)
		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				cancel()
				logger.Fatal("migrate schema", zap.Error(err))
			}
		}
		cancel()
		store = pg
	}
	defer store.Close()

	// --- Optional list cache ---
	deps := handlers.Deps{
		Store:  store,
		Alerts: utils.Alerts{AppName: cfg.Server.AppName},
		Logger: logger,
	}
	var cachePinger handlers.Pinger
	if cfg.IsCacheConfigured() {
		lc := cache.New(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := lc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, list cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			lc.Close()
		} else {
			deps.Cache = lc
			cachePinger = lc
			defer lc.Close()
		}
		cancel()
	}

	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := handlers.SeedAdmin(ctx, store.Users(), cfg.Admin, logger); err != nil {
			logger.Error("seed administrator", zap.Error(err))
		}
		cancel()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRoutes(cfg, deps, cachePinger, reg),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
