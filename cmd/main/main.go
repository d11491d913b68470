package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/hestia/internal/api"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/server"
	"github.com/UnknownOlympus/hestia/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application. Depending on the configuration
// it runs the tasks API, the task board UI, or both, next to the monitoring server.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var pinger server.DBPinger

	if cfg.API.Enabled {
		dtb, err := repository.NewDatabase(ctx, repository.DSN(cfg.Postgres))
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		pinger = dtb

		taskRepo := repository.NewTaskRepository(dtb, appMetrics)
		router := api.NewRouter(logger, taskRepo, appMetrics, cfg.API.AllowedOrigins)

		wgr.Add(1)
		go func() {
			defer wgr.Done()
			if err := server.Serve(ctx, logger, "api", cfg.API.Address, router); err != nil {
				logger.ErrorContext(ctx, "Tasks API failed", sl.Err(err))
				stop()
			}
		}()
	}

	if cfg.Web.Enabled {
		httpClient := client.CreateHTTPClient(logger, cfg.Web.RequestTimeout)
		taskClient := client.NewTaskClient(logger, httpClient, cfg.Web.APIURL, appMetrics)
		sessions := web.NewSessions(logger, taskClient, appMetrics,
			web.WithIdleTTL(cfg.Web.SessionTTL), web.WithMaxSessions(cfg.Web.MaxSessions))

		router, err := web.NewRouter(logger, sessions)
		if err != nil {
			log.Fatalf("Failed to load task board templates: %v", err)
		}

		wgr.Add(1)
		go func() {
			defer wgr.Done()
			if err := server.Serve(ctx, logger, "web", cfg.Web.Address, router); err != nil {
				logger.ErrorContext(ctx, "Task board failed", sl.Err(err))
				stop()
			}
		}()
	}

	wgr.Add(1)
	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, pinger, cfg.Monitoring.Port, cfg.Web.APIURL)
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"api", cfg.API.Enabled, "web", cfg.Web.Enabled)

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
