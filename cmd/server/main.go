package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/config"
	"orphancare-learning/internal/database"
	"orphancare-learning/internal/handlers"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/repository"
	"orphancare-learning/internal/review"
	"orphancare-learning/internal/router"
	"orphancare-learning/internal/services"
	"orphancare-learning/internal/watch"
	"orphancare-learning/internal/websocket"
	"orphancare-learning/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()
	log.Info("starting learning backend", "env", cfg.Env, "schedule_store", cfg.ScheduleStore)

	// ──── Step 2: PostgreSQL ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, "migrations", log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// ──── Step 3: Redis ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClients.Close()

	// ──── Repositories ────
	var scheduleStore repository.ScheduleStore
	switch cfg.ScheduleStore {
	case "postgres":
		scheduleStore = repository.NewPostgresScheduleStore(pool)
	case "memory":
		scheduleStore = repository.NewMemoryScheduleStore()
	default:
		scheduleStore = repository.NewRedisScheduleStore(redisClients.Data)
	}
	completionRepo := repository.NewCompletionRepo(pool)

	// ──── Services ────
	cat := catalog.Default()
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	publisher := services.NewRedisPublisher(redisClients.Data, log)
	queue := worker.NewQueue(redisClients.Queue)

	reviewService := services.NewReviewService(scheduleStore, cat, review.NewScheduler(time.Now), publisher, log)

	watchCfg := services.WatchServiceConfig{
		Threshold:  cfg.WatchCompletionThreshold,
		SessionTTL: time.Duration(cfg.WatchSessionTTLMinutes) * time.Minute,
	}
	if cfg.YouTubeLookup {
		watchCfg.Durations = services.NewYouTubeService()
	}
	watchService := services.NewWatchService(watch.NewRegistry(), cat, queue, publisher, watchCfg, log)

	reminder := services.NewReviewReminder(scheduleStore, publisher,
		time.Duration(cfg.ReviewReminderIntervalMinutes)*time.Minute, time.Now, log)

	quizLimiter := middleware.NewRateLimiter(cfg.QuizRatePerMinute)

	// ──── Background Jobs ────
	workerPool := worker.NewPool(redisClients.Queue, completionRepo, publisher, cfg.WorkerCount, log)
	workerPool.Start()

	jobs := services.NewJobScheduler(log)
	if err := jobs.Every(reminder.Interval(), "review-reminders", func(ctx context.Context) {
		sent, err := reminder.Run(ctx)
		if err != nil {
			log.Warn("review reminder run failed", "error", err)
			return
		}
		if sent > 0 {
			log.Info("review reminders sent", "count", sent)
		}
	}); err != nil {
		return err
	}
	if err := jobs.Every(5*time.Minute, "watch-session-sweep", func(context.Context) {
		watchService.Sweep()
		quizLimiter.Cleanup(time.Now())
	}); err != nil {
		return err
	}
	jobs.Start()

	// ──── WebSocket ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, log)
	watchStream := websocket.NewWatchStream(wsHub, watchService)

	// ──── HTTP Server ────
	r := router.New(
		jwtAuth,
		quizLimiter,
		handlers.NewCatalogHandler(cat, reviewService, log),
		handlers.NewReviewHandler(reviewService, log),
		handlers.NewWatchHandler(watchService, log),
		handlers.NewCompletionHandler(completionRepo, log),
		handlers.NewLibraryHandler(cat),
		wsHub,
		watchStream,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", server.Addr, "api", "/api/v1", "ws", "/api/v1/ws")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	jobs.Stop()
	wsHub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	workerPool.Stop()
	return nil
}
