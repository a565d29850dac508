package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/auth"
	"github.com/homewalk-hq/inspect-engine/pkg/config"
	"github.com/homewalk-hq/inspect-engine/pkg/database"
	"github.com/homewalk-hq/inspect-engine/pkg/handlers"
	"github.com/homewalk-hq/inspect-engine/pkg/media"
	"github.com/homewalk-hq/inspect-engine/pkg/middleware"
	"github.com/homewalk-hq/inspect-engine/pkg/notify"
	"github.com/homewalk-hq/inspect-engine/pkg/repositories"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
	"github.com/homewalk-hq/inspect-engine/pkg/vision"
)

// Version is set at build time via ldflags
var Version = "dev"

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Database),
		zap.String("vision_model", cfg.Vision.Model))

	ctx := context.Background()

	// Connect to PostgreSQL and apply pending migrations
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, migrationsPath, logger.Named("migrations")); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger.Named("auth"))
	authMiddleware := auth.NewMiddleware(authService, logger.Named("auth"))

	// External clients
	uploader, err := media.NewClient(&media.Config{
		CloudName:    cfg.Uploader.CloudName,
		UploadPreset: cfg.Uploader.UploadPreset,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create media uploader", zap.Error(err))
	}

	comparer, err := vision.NewClient(&vision.Config{
		BaseURL:   cfg.Vision.BaseURL,
		Model:     cfg.Vision.Model,
		MaxTokens: cfg.Vision.MaxTokens,
		APIKey:    cfg.Vision.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create vision client", zap.Error(err))
	}

	reporter := notify.NewReportClient(cfg.ReportBaseURL, logger.Named("notify"))
	emailSender := notify.NewEmailClient(cfg.EmailBaseURL, logger.Named("notify"))

	// Repositories
	homeRepo := repositories.NewHomeRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	inspectionRepo := repositories.NewInspectionRepository(db)
	comparisonRepo := repositories.NewRoomComparisonRepository(db)

	// Services
	homeService := services.NewHomeService(homeRepo, logger.Named("homes"))
	roomService := services.NewRoomService(roomRepo, homeRepo, uploader, comparer, logger.Named("rooms"))
	inspectionService := services.NewInspectionService(inspectionRepo, homeRepo, emailSender, cfg, logger.Named("inspections"))
	walkthroughService := services.NewWalkthroughService(
		inspectionRepo, homeRepo, roomRepo, comparisonRepo,
		uploader, comparer, reporter, logger.Named("walkthrough"))

	// HTTP routes
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewHomeHandler(homeService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewRoomHandler(roomService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewInspectionHandler(inspectionService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewWalkthroughHandler(walkthroughService, logger).RegisterRoutes(mux)

	handler := middleware.Recover(logger)(middleware.RequestLogger(logger)(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting inspect-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))

	if cfg.TLSCertPath != "" {
		err = http.ListenAndServeTLS(addr, cfg.TLSCertPath, cfg.TLSKeyPath, handler)
	} else {
		err = http.ListenAndServe(addr, handler)
	}
	if err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a production logger, switching to the human-readable
// development encoder outside deployed environments.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
