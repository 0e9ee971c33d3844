package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/timmy/reelquote/internal/api"
	"github.com/timmy/reelquote/internal/api/handler"
	"github.com/timmy/reelquote/internal/bootstrap"
	"github.com/timmy/reelquote/internal/config"
	"github.com/timmy/reelquote/internal/logger"
)

func main() {
	flags := pflag.NewFlagSet("api", pflag.ExitOnError)
	flags.String("host", "localhost", "Host to bind to")
	flags.Int("port", 8000, "Port to bind to")
	configPath := flags.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	_ = flags.Parse(os.Args[1:])

	log := logger.NewDefault()
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.WithError(err).Error("Failed to load config")
		os.Exit(1)
	}

	ctx := logger.SetComponent(context.Background(), "api")
	services, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("Failed to initialize services")
		os.Exit(1)
	}

	router := api.SetupRouter(&cfg.Server, api.Deps{
		Generator: services.Generation,
		Uploader:  services.Reels,
		Cache:     services.Cache,
		Features: handler.Features{
			Model:  services.Quotes.GetModel(),
			Images: services.MediaEnabled(),
			Videos: services.MediaEnabled(),
			Reels:  services.Reels.IsEnabled(),
		},
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		logger.With(logger.Fields{
			"addr": cfg.Server.Addr(),
			"mode": cfg.Server.Mode,
		}).Info(ctx, "Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}
