package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/otel"
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/core/config"
	"launchthat.app/portal/core/db"
	"launchthat.app/portal/internal/http/middleware"
	httprouter "launchthat.app/portal/internal/http/router"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/ratelimit"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
	"launchthat.app/portal/internal/webhook"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "portal server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(id.NodeServer); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	box, err := secretbox.New(cfg.Secrets.MasterKey)
	if err != nil {
		slog.ErrorContext(ctx, "invalid secrets master key", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close() //nolint:errcheck
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer producer.Close() //nolint:errcheck

	sender := webhook.NewSender(webhook.Config{
		UserAgent:     cfg.Webhooks.UserAgent,
		MaxBackoff:    cfg.Webhooks.MaxBackoff,
		RetryAttempts: cfg.Webhooks.RetryAttempts,
		Timeout:       cfg.Webhooks.Timeout,
	})

	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		service.Dependencies{
			Secrets:  box,
			Queue:    producer,
			Limiter:  ratelimit.NewRedisLimiter(redisClient),
			Sender:   sender,
			Registry: scenario.NewRegistry(sender, resty.New().SetTimeout(cfg.Webhooks.Timeout)),
		},
		cfg.WorkOS,
		cfg.DashboardURL,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Pipeline.TraceHeaderName))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DashboardURL:   cfg.DashboardURL,
		IsProduction:   cfg.IsProduction(),
		AdminAPIKey:    cfg.AdminAPIKey,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	return router
}

const banner = `
 ____   ___  ____ _____  _    _
|  _ \ / _ \|  _ \_   _|/ \  | |
| |_) | | | | |_) || | / _ \ | |
|  __/| |_| |  _ < | |/ ___ \| |___
|_|    \___/|_| \_\|_/_/   \_\_____|
`
