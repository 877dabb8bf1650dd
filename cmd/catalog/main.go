package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopmicro/orderflow/internal/catalog"
	"github.com/shopmicro/orderflow/internal/config"
	"github.com/shopmicro/orderflow/internal/handlers"
	"github.com/shopmicro/orderflow/internal/kvstore"
	"github.com/shopmicro/orderflow/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	store := kvstore.New(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
	defer store.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	handlers.RegisterProductRoutes(r, catalog.NewService(store), store)

	srv := &http.Server{
		Addr:         ":" + cfg.CatalogPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("catalog service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down catalog service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
