package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/service"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/bundle"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/config"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/infrastructure/fetch"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/infrastructure/persistence/repository"
	"github.com/CORAZONPERFECTO/hecho-docs/internal/infrastructure/storage"
	httpiface "github.com/CORAZONPERFECTO/hecho-docs/internal/interfaces/http"
	renderdocx "github.com/CORAZONPERFECTO/hecho-docs/internal/render/docx"
	renderpdf "github.com/CORAZONPERFECTO/hecho-docs/internal/render/pdf"
	renderxlsx "github.com/CORAZONPERFECTO/hecho-docs/internal/render/xlsx"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/database"
	"github.com/CORAZONPERFECTO/hecho-docs/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting document rendering service")

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	evidenceRepo := repository.NewEvidenceRepository(db.DB, logger)
	settingsRepo := repository.NewSettingsRepository(db.DB, logger)
	exportRepo := repository.NewExportRepository(db.DB, logger)

	// Infrastructure adapters
	fetcher := fetch.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxFileBytes, logger)
	artifactStore := storage.NewArtifactStore(cfg.Export.OutputDir, exportRepo, logger)

	// Renderers
	paginated := renderpdf.NewDocumentRenderer(cfg.Render.PaginationThreshold, logger)
	flowTable := renderpdf.NewFlowTableRenderer(logger)
	evidencePDF := renderpdf.NewEvidenceRenderer(fetcher, logger)
	evidenceDocx := renderdocx.NewEvidenceRenderer(fetcher, logger)
	xlsxExporter := renderxlsx.NewDocumentExporter(logger)
	bundler := bundle.NewBundler(fetcher, logger)

	// Application services
	documentService := service.NewDocumentService(settingsRepo, fetcher, paginated, flowTable, xlsxExporter, logger)
	reportService := service.NewReportService(evidenceRepo, settingsRepo, fetcher, evidencePDF, evidenceDocx, artifactStore, logger)
	bundleService := service.NewBundleService(evidenceRepo, bundler, logger)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, documentService, reportService, bundleService, exportRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Service stopped")
}
