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

	"paper-search/config"
	"paper-search/logger"
	"paper-search/metrics"
	"paper-search/services"
	"paper-search/storage"
	"paper-search/storage/driver"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	if cfg.GinDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// A store that cannot be reached leaves the API up in degraded mode:
	// data endpoints answer 500 and /health reports the database as disconnected.
	var store storage.Store
	s, err := driver.Open(context.Background(), cfg, logging)
	if err != nil {
		logging.Error("Failed to connect to document store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	} else {
		logging.Info("Successfully connected to document store", zap.String("driver", cfg.StoreDriver))
		store = storage.Instrument(s, m)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(ctx); err != nil {
				logging.Warn("Closing document store failed", zap.Error(err))
			}
		}()
	}

	catalog := services.NewCatalog(store, logging)

	cronScheduler := cron.New()
	if cfg.ProbeSchedule != "" {
		probe := services.NewProbe(catalog, m, logging, 10*time.Second)
		if _, err := cronScheduler.AddFunc(cfg.ProbeSchedule, probe.Run); err != nil {
			logging.Fatal("Invalid probe schedule", zap.String("schedule", cfg.ProbeSchedule), zap.Error(err))
		}
		probe.Run()
	}
	cronScheduler.Start()

	router := newRouter(cfg, catalog, m, reg, logging)

	logging.Info("Starting server",
		zap.String("addr", cfg.Addr()),
		zap.Bool("debug", cfg.GinDebug),
		zap.Strings("cors_origins", cfg.AllowedOrigins()))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info("Shutting down server")

	<-cronScheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", zap.Error(err))
	}
	logging.Info("Server exited")
}
