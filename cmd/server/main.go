package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/gamestore/internal/app"
	"github.com/Skotchmaster/gamestore/pkg/config"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	loggingmw "github.com/Skotchmaster/gamestore/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(initCtx, cfg, logger)
	cancelInit()
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), loggingmw.RequestLogger(logger))
	a.Register(e)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := a.Close(); err != nil {
		logger.Error("backend_close_error", "error", err)
	}

	logger.Info("shutdown complete")
}
