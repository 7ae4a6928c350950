package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
	datasethandler "github.com/shahbi72/Clarity-board/internal/domain/dataset/handler"
	ingesthandler "github.com/shahbi72/Clarity-board/internal/domain/ingest/handler"
	ingestservice "github.com/shahbi72/Clarity-board/internal/domain/ingest/service"
	"github.com/shahbi72/Clarity-board/internal/domain/insights"
	insightshandler "github.com/shahbi72/Clarity-board/internal/domain/insights/handler"
	"github.com/shahbi72/Clarity-board/pkg/config"
	"github.com/shahbi72/Clarity-board/pkg/cron"
	"github.com/shahbi72/Clarity-board/pkg/db"
	"github.com/shahbi72/Clarity-board/pkg/metrics"
	"github.com/shahbi72/Clarity-board/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	DatasetRepo dataset.Repository

	// Services
	IngestService   *ingestservice.Service
	DatasetService  *dataset.Service
	InsightsService *insights.Service
	FileStorage     storage.Storage
	IngestMetrics   *metrics.Ingest
	Scheduler       *cron.Scheduler

	// Handlers
	UploadHandler   *ingesthandler.UploadHandler
	DatasetHandler  *datasethandler.DatasetHandler
	InsightsHandler *insightshandler.InsightsHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := deps.initServices(registry); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() error {
	d.DatasetRepo = dataset.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

func (d *Dependencies) initServices(registry *prometheus.Registry) error {
	d.IngestMetrics = metrics.NewIngest(registry)

	d.IngestService = ingestservice.NewService(ingestservice.Limits{
		MaxUploadBytes: d.Config.Ingest.MaxUploadBytes,
		MaxRows:        d.Config.Ingest.MaxRows,
		MaxColumns:     d.Config.Ingest.MaxColumns,
		PreviewRows:    d.Config.Ingest.PreviewRows,
	}, d.Logger, ingestservice.WithMetrics(d.IngestMetrics))

	d.DatasetService = dataset.NewService(d.DatasetRepo, d.Logger)
	d.InsightsService = insights.NewService(d.DatasetRepo, d.Logger)

	fileStorage, err := storage.NewLocalStorage(d.Config.Ingest.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage

	if days := d.Config.Ingest.UploadRetentionDays; days > 0 {
		retention := time.Duration(days) * 24 * time.Hour
		d.Scheduler = cron.NewScheduler(fileStorage, retention, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

func (d *Dependencies) initHandlers() error {
	d.UploadHandler = ingesthandler.NewUploadHandler(d.IngestService, d.DatasetService, d.FileStorage, d.Logger)
	d.DatasetHandler = datasethandler.NewDatasetHandler(d.DatasetService, d.Logger)
	d.InsightsHandler = insightshandler.NewInsightsHandler(d.InsightsService, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
