package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Publisher     io.Closer
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Observability: runtime}
}

// Shutdown drains HTTP first, then flushes telemetry, then closes the publisher, redis and the database.
// Every step runs even when an earlier one fails; the errors are joined.
func (a *App) Shutdown(ctx context.Context) error {
	totalCtx, cancel := context.WithTimeout(ctx, durationOr(a.Config.ShutdownTimeout, 20*time.Second))
	defer cancel()

	var errs []error
	if a.Server != nil {
		httpCtx, httpCancel := context.WithTimeout(totalCtx, durationOr(a.Config.ShutdownHTTPDrainTimeout, 10*time.Second))
		if err := a.Server.Shutdown(httpCtx); err != nil {
			a.Logger.Error("failed to shutdown http server", "error", err)
			errs = append(errs, err)
		}
		httpCancel()
	}
	if a.Observability != nil {
		obsCtx, obsCancel := context.WithTimeout(totalCtx, durationOr(a.Config.ShutdownObservabilityTimeout, 8*time.Second))
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			a.Logger.Error("failed to shutdown observability", "error", err)
			errs = append(errs, err)
		}
		obsCancel()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Error("failed to close amqp publisher", "error", err)
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", "error", err)
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Logger.Error("failed to close database connection", "error", err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func durationOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
