package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"healthchat/internal/api"
	"healthchat/internal/cache"
	"healthchat/internal/chat"
	"healthchat/internal/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	var store cache.Store
	if cfg.Redis.Addr != "" {
		rstore, err := cache.NewRedis(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.CacheTTL)
		if err != nil {
			slog.Error("connect redis", "err", err)
			os.Exit(1)
		}
		defer rstore.Close()
		store = rstore
		slog.Info("using redis response cache", "addr", cfg.Redis.Addr)
	} else {
		store = cache.NewMemory(cfg.CacheTTL, nil)
	}

	var responder api.Responder
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; /api/chat will answer 503")
	} else {
		gen, err := chat.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			slog.Error("init gemini client", "err", err)
			os.Exit(1)
		}
		responder = chat.NewOrchestrator(gen, cfg.Models, store, slog.Default())
	}

	handler := api.NewHandler(responder, slog.Default())
	router := gin.Default()
	handler.RegisterRoutes(router)

	slog.Info("listening", "addr", cfg.ServerAddress, "models", cfg.Models)
	if err := router.Run(cfg.ServerAddress); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
