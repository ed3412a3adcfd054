package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
	"github.com/KasumiMercury/primind-chat-reminder/internal/config"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/chatwork"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/handler"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/middleware"
	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/tracing"
)

const serviceName = "chat-reminder"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.Log)
	tracing.Setup()

	ctx := context.Background()

	store, err := initStorage(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		return 1
	}

	publisher, err := initPublisher(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize publisher", "error", err)
		return 1
	}

	if publisher != nil {
		defer func(p pubsub.Publisher) {
			if err := p.Close(); err != nil {
				slog.Warn("failed to close publisher", "error", err)
			}
		}(publisher)
	}

	chatClient := chatwork.NewClient(chatwork.Config{
		BaseURL:       cfg.Chatwork.BaseURL,
		Token:         cfg.Chatwork.Token,
		RatePerSecond: cfg.Chatwork.RatePerSecond,
		Burst:         cfg.Chatwork.Burst,
	})

	reminderUseCase := app.NewReminderUseCase(store.repo, store.materializer, publisher)
	chatUseCase := app.NewChatUseCase(chatClient)

	httpMetrics, err := metrics.NewHTTPMetrics(otel.Meter(serviceName))
	if err != nil {
		slog.Error("failed to create http metrics", "error", err)
		return 1
	}

	router := setupRouter(
		handler.NewReminderHandler(reminderUseCase),
		handler.NewChatHandler(chatUseCase),
		httpMetrics,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)

	go func() {
		slog.Info("starting server", "address", cfg.Server.Address())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("failed to start server", "error", err)
		return 1
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return 1
	}

	slog.Info("server exited properly")

	return 0
}

func setupRouter(
	reminderHandler *handler.ReminderHandler,
	chatHandler *handler.ChatHandler,
	httpMetrics *metrics.HTTPMetrics,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.PanicRecoveryGin())
	router.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{"/ping"},
		ModuleResolver: middleware.ModuleByPrefix(map[string]logging.Module{
			"/api/v1/reminders": logging.ModuleReminders,
			"/api/v1/rooms":     logging.ModuleChat,
			"/api/v1/test":      logging.ModuleChat,
		}, logging.ModuleSystem),
		TracerName:  serviceName,
		HTTPMetrics: httpMetrics,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	reminderHandler.RegisterRoutes(v1)
	chatHandler.RegisterRoutes(v1)

	return router
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logging.NewHandler(inner)))
}
