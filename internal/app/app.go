// Package app wires configuration into the tracker's runtime components. Both
// the HTTP service and the operator CLI start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/applog/internal/config"
	"github.com/cuongbtq/applog/internal/tracker/events"
	"github.com/cuongbtq/applog/internal/tracker/service"
	"github.com/cuongbtq/applog/internal/tracker/storage"
	"github.com/cuongbtq/applog/internal/tracker/view"
	"github.com/cuongbtq/applog/shared/database"
	"github.com/cuongbtq/applog/shared/logger"
	"github.com/cuongbtq/applog/shared/rabbitmq"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *database.Client
	Jobs      *service.JobService
	Templates *service.TemplateService
	Session   *view.Session

	rabbit *rabbitmq.Client
}

// Options adjusts how New builds the App.
type Options struct {
	// SkipMigrate leaves the schema alone even when auto_migrate is set.
	SkipMigrate bool
	// ServiceOptions are appended to the options derived from config.
	ServiceOptions []service.Option
}

// New opens the database, applies migrations when configured, connects the
// event publisher when enabled and builds the services.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	db, err := database.NewClient(ctx, cfg.DatabaseClientConfig(), log.Component("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{Config: cfg, Logger: log.Logger, DB: db}

	if cfg.Database.AutoMigrate && !opts.SkipMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if len(applied) > 0 {
			a.Logger.Info("Database migrated", slog.Any("versions", applied))
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.Enabled {
		a.rabbit, err = rabbitmq.NewClient(cfg.RabbitMQClientConfig(), log.Component("rabbitmq"))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		publisher = events.NewBrokerPublisher(a.rabbit, log.Component("events"))
	}

	serviceOpts := append([]service.Option{
		service.WithPublisher(publisher),
		service.WithRequireJobURL(cfg.Tracker.RequireJobURL),
	}, opts.ServiceOptions...)

	store := storage.NewStorage(db, log.Component("storage"))
	a.Jobs = service.NewJobService(db, store, log.Component("jobs"), serviceOpts...)
	a.Templates = service.NewTemplateService(db, store, log.Component("templates"), serviceOpts...)
	a.Session = view.NewSession(a.Jobs)

	return a, nil
}

// Close releases the broker connection and the database pool.
func (a *App) Close() {
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.Logger.Error("Failed to close RabbitMQ client", slog.Any("error", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Failed to close database", slog.Any("error", err))
		}
	}
}
