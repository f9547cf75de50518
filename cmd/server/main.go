package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/garyjia/docscore/internal/config"
	"github.com/garyjia/docscore/internal/extract"
	httpapi "github.com/garyjia/docscore/internal/interfaces/http"
	"github.com/garyjia/docscore/internal/metrics"
	"github.com/garyjia/docscore/internal/payment"
	"github.com/garyjia/docscore/internal/pipeline"
	"github.com/garyjia/docscore/internal/report"
	"github.com/garyjia/docscore/internal/repository"
	"github.com/garyjia/docscore/internal/storage"
	"github.com/garyjia/docscore/migrations"
	"github.com/garyjia/docscore/pkg/database"
	"github.com/garyjia/docscore/pkg/utils"
)

func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("DOCSCORE_CONFIG"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "docscore",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting document scoring service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(ctx, migrationsFS(cfg.Database.MigrationsDir, logger)); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	// Extraction
	router := extract.NewRouter(
		extract.NewPDFTextExtractor(cfg.Extraction.MaxPDFPages, logger),
		extract.NewImageTextExtractor(cfg.Extraction.TessdataPrefix, cfg.Extraction.OCRLanguage, logger),
	)

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, httpapi.Dependencies{
		Scorer:    pipeline.New(pipelineMetrics, logger),
		Store:     repository.NewAssessmentRepository(db.DB, logger),
		Extractor: router,
		Fields:    extract.NewStubFieldExtractor(),
		QR:        payment.NewQRRenderer(cfg.Payment.QRSize),
		Exporter:  report.NewXLSXExporter(logger),
		Uploads:   storage.NewUploadStorage(cfg.Storage.UploadDir, logger),
		Gatherer:  registry,
	}, logger)

	if err := server.Start(ctx); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		return
	}

	logger.Info("Server exited successfully")
}

// migrationsFS prefers an on-disk migrations directory and falls back to
// the embedded set
func migrationsFS(dir string, logger *zap.Logger) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logger.Info("Using migrations directory", zap.String("dir", dir))
			return os.DirFS(dir)
		}
	}
	return migrations.FS
}
