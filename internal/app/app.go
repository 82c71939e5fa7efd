package app

import (
	"context"

	"fleetdesk/config"
	"fleetdesk/internal/database"
	"fleetdesk/internal/events"
	"fleetdesk/internal/handlers/middleware"
	"fleetdesk/internal/jobs"
	"fleetdesk/internal/logger"
	"fleetdesk/internal/repositories"
	"fleetdesk/internal/services"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	EventBus   *events.EventBus
	Config     config.Config

	Services services.Service
	Repos    repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	middleware := middleware.New(db, eventBus, config)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(service.Scheduler, config, service, eventBus); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:   db,
		Middleware: middleware,
		EventBus:   eventBus,
		Config:     config,
		Services:   service,
		Repos:      repos,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.VehicleLocks,
		a.Services.MileageLedger,
		a.Services.TaskScheduler,
		a.Services.AvailabilityGuard,
		a.Services.AssignmentLifecycle,
		a.Services.BookingLifecycle,
		a.Services.Vehicle,
		a.Services.Employment,
		a.Services.Refuel,
		a.Services.Maintenance,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
