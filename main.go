package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/wfh-poll/config"
	"github.com/saxenaaman628/wfh-poll/internal/api"
	"github.com/saxenaaman628/wfh-poll/internal/chat"
	"github.com/saxenaaman628/wfh-poll/internal/controller"
	"github.com/saxenaaman628/wfh-poll/internal/kv"
	"github.com/saxenaaman628/wfh-poll/internal/poll"
	"github.com/saxenaaman628/wfh-poll/internal/redis"
	redishandler "github.com/saxenaaman628/wfh-poll/internal/redisHandler"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store, closeStore, err := newStore(ctx, cfg, httpClient)
	if err != nil {
		slog.Error("kv store unavailable", "backend", cfg.KVBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	slackClient := chat.NewClient(cfg.SlackBotToken, cfg.SlackAPIURL, httpClient)
	svc := poll.NewService(slackClient, store, cfg)

	if mode := config.GetEnv("GIN_MODE", ""); mode != "" {
		gin.SetMode(mode)
	}
	router := api.NewRouter(controller.New(svc))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go shutdownOnDone(ctx, server, 5*time.Second)

	slog.Info("listening", "port", cfg.Port, "kv_backend", cfg.KVBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("server closed")
}

// shutdownOnDone stops server once ctx is done, giving open requests up to
// timeout to finish.
func shutdownOnDone(ctx context.Context, server *http.Server, timeout time.Duration) error {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}

func newStore(ctx context.Context, cfg config.Config, httpClient *http.Client) (kv.Store, func(), error) {
	switch cfg.KVBackend {
	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redishandler.NewStore(rdb), func() { rdb.Close() }, nil
	case config.BackendMemory:
		slog.Warn("using in-memory kv store, votes are lost on restart")
		return kv.NewMemoryStore(), func() {}, nil
	}
	return kv.NewRESTStore(cfg.KVRestURL, cfg.KVRestToken, httpClient), func() {}, nil
}
