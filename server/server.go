package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distrofm/config"
	"distrofm/core/auth"
	"distrofm/core/distribution"
	"distrofm/core/importer"
	"distrofm/core/validator"
	"distrofm/db"
	"distrofm/logger"
	"distrofm/model"
	"distrofm/repository"
	"distrofm/storage"

	"github.com/gorilla/mux"
)

// Start initializes all backing services and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
	})

	auth.InitJWT(cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.DistributionRecord{}); err != nil {
		logger.Fatal("Failed to migrate distribution records", logger.ErrorField(err))
	}

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	ensureDirExists(cfg.UploadDir)
	ensureDirExists(cfg.AudioUploadDir)
	ensureDirExists(cfg.CoverUploadDir)
	ensureDirExists(cfg.ImportDir)

	userRepo := repository.NewMySQLUserRepository()
	releaseRepo := repository.NewMySQLReleaseRepository()
	trackRepo := repository.NewMySQLTrackRepository()
	platformRepo := repository.NewMySQLPlatformRepository()
	distributionRepo := repository.NewGormDistributionRepository()

	assets := storage.NewMinioAssetStore(cfg)
	releaseValidator := validator.New(releaseRepo, trackRepo, platformRepo, assets)

	gateway := distribution.NewSimulatedGateway(cfg.DeliveryDelay)
	events := distribution.NewRedisEventPublisher()
	orchestrator := distribution.NewOrchestrator(distributionRepo, platformRepo, releaseRepo, trackRepo, gateway, events)

	imp, err := importer.New()
	if err != nil {
		logger.Fatal("Failed to initialize importer", logger.ErrorField(err))
	}

	apiHandler := NewAPIHandler(cfg, userRepo, releaseRepo, trackRepo, platformRepo, releaseValidator, orchestrator, imp)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)

	// Catalog endpoints
	router.HandleFunc("/api/platforms", apiHandler.GetPlatformsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/releases", apiHandler.AuthMiddleware(apiHandler.CreateReleaseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/releases", apiHandler.AuthMiddleware(apiHandler.GetReleasesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}", apiHandler.AuthMiddleware(apiHandler.GetReleaseHandler)).Methods(http.MethodGet)

	// Validation and distribution endpoints
	router.HandleFunc("/api/releases/{id}/validate", apiHandler.AuthMiddleware(apiHandler.ValidateReleaseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/distribute", apiHandler.AuthMiddleware(apiHandler.DistributeReleaseHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}/distributions", apiHandler.AuthMiddleware(apiHandler.GetDistributionHistoryHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/distributions/{id}", apiHandler.AuthMiddleware(apiHandler.GetDistributionStatusHandler)).Methods(http.MethodGet)

	// Bulk import endpoint
	router.HandleFunc("/api/admin/import", apiHandler.AuthMiddleware(apiHandler.ImportHandler)).Methods(http.MethodPost)

	// Live distribution status feed
	router.HandleFunc("/api/distribution/events", apiHandler.StatusEventsHandler).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("Failed to create directory", logger.String("path", path), logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("Failed to check directory", logger.String("path", path), logger.ErrorField(err))
	}
}
