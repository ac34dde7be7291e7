package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signin-portal/internal/app"
	"signin-portal/internal/config"
	"signin-portal/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init()

	if err := run(); err != nil {
		logger.Fatal("signin-portal exited", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Info("signin-portal stopped cleanly", nil)
}

func run() error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- application.Run()
	}()

	logger.Info("signin-portal started", map[string]any{
		"port":          cfg.AppPort,
		"google":        cfg.GoogleEnabled(),
		"keycloak":      cfg.KeycloakEnabled(),
		"cookie_secure": cfg.CookieSecure,
	})

	select {
	case err := <-serveErr:
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = application.Shutdown(shutdownCtx)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return application.Shutdown(shutdownCtx)
}
