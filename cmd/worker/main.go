package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/otel"
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/core/config"
	"launchthat.app/portal/core/db"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/ratelimit"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
	"launchthat.app/portal/internal/webhook"
	"launchthat.app/portal/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Setup(cfg)

	slog.InfoContext(ctx, "portal worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.RedisGroup,
		"consumer_name", cfg.Pipeline.RedisConsumer)

	if err := id.Init(id.NodeWorker); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
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

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Pipeline.RedisStream,
		Group:        cfg.Pipeline.RedisGroup,
		Consumer:     cfg.Pipeline.RedisConsumer,
		DLQStream:    cfg.Pipeline.RedisDLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer producer.Close() //nolint:errcheck

	sender := webhook.NewSender(webhook.Config{
		UserAgent:     cfg.Webhooks.UserAgent,
		MaxBackoff:    cfg.Webhooks.MaxBackoff,
		RetryAttempts: cfg.Webhooks.RetryAttempts,
		Timeout:       cfg.Webhooks.Timeout,
	})

	stores := store.NewStores(database.Queries())
	services := service.NewServices(
		stores,
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
	runs := services.Runs()

	dispatcher := worker.NewDispatcher(stores, sender, func(sub model.WebhookSubscription) (string, error) {
		return service.SubscriptionSecret(box, sub)
	})

	w := worker.New(consumer, map[queue.TaskType]worker.Handler{
		queue.TaskTypeScenarioRun:     worker.ScenarioRunHandler(runs),
		queue.TaskTypeWebhookDispatch: dispatcher,
	}, worker.Config{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
	})

	reclaimer := worker.NewPendingReclaimer(redisClient, worker.PendingReclaimerConfig{
		Stream:    cfg.Pipeline.RedisStream,
		Group:     cfg.Pipeline.RedisGroup,
		Consumer:  cfg.Pipeline.RedisConsumer + "-reclaimer",
		MinIdle:   5 * time.Minute,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, w.ProcessMessage)

	var scheduler *worker.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = worker.NewScheduler(stores, runs, []worker.Sweep{
			{Name: "expire_invitations", Run: services.Invitations().ExpireOld},
			{Name: "delete_expired_sessions", Run: services.Auth().DeleteExpiredSessions},
		}, worker.SchedulerConfig{
			SweepSchedule: cfg.Scheduler.SweepSchedule,
			ReloadEvery:   cfg.Scheduler.ReloadEvery,
		})
	}

	errCh := make(chan error, 3)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()
	if scheduler != nil {
		go func() {
			errCh <- scheduler.Run(ctx)
		}()
	}

	slog.InfoContext(ctx, "worker initialized and running", "scheduler", scheduler != nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker component exited", "error", err)
		}
	}

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Reclaimer and scheduler stop quickly; the worker may be mid-run.
		reclaimer.Stop()
		if scheduler != nil {
			scheduler.Stop()
		}
		w.Stop()
		close(done)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-done:
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 ____   ___  ____ _____  _    _       __        _____  ____  _  _______ ____
|  _ \ / _ \|  _ \_   _|/ \  | |      \ \      / / _ \|  _ \| |/ / ____|  _ \
| |_) | | | | |_) || | / _ \ | |       \ \ /\ / / | | | |_) | ' /|  _| | |_) |
|  __/| |_| |  _ < | |/ ___ \| |___     \ V  V /| |_| |  _ <| . \| |___|  _ <
|_|    \___/|_| \_\|_/_/   \_\_____|     \_/\_/  \___/|_| \_\_|\_\_____|_| \_\
`
