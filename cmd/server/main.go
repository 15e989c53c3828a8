package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"imagestudio/internal/auth"
	"imagestudio/internal/config"
	"imagestudio/internal/handler"
	"imagestudio/internal/middleware"
	"imagestudio/internal/provider"
	"imagestudio/internal/repository/postgres"
	"imagestudio/internal/service"
	"imagestudio/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Blob store for image bytes and presigned URLs
	store, err := storage.NewS3Store(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Repositories
	folderRepo := postgres.NewFolderRepository(pool)
	imageRepo := postgres.NewImageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txManager := postgres.NewTransactionManager(pool)

	// Generation backends
	registry := provider.Setup(cfg, logger)

	// Services
	folderService := service.NewFolderService(folderRepo, imageRepo, txManager, logger)
	treeService := service.NewTreeService(folderRepo, imageRepo, logger)
	imageService := service.NewImageService(imageRepo, folderRepo, userRepo, store, registry, cfg.PresignExpiry, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, treeService, logger)
	imageHandler := handler.NewImageHandler(imageService, logger)
	modelsHandler := handler.NewModelsHandler(registry)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Authenticated API routes (Go 1.22+ method patterns)
	api := http.NewServeMux()

	api.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	api.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	api.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	api.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	api.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	api.HandleFunc("GET /api/images", imageHandler.ListImages)
	api.HandleFunc("POST /api/images/move", imageHandler.MoveImages)
	api.HandleFunc("POST /api/images/generate", imageHandler.GenerateImage)
	api.HandleFunc("POST /api/images/edit", imageHandler.EditImage)
	api.HandleFunc("GET /api/images/{id}/download", imageHandler.DownloadImage)

	api.HandleFunc("GET /api/models", modelsHandler.GetModels)

	// Health check stays outside the auth chain
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("/api/", middleware.Auth(jwtVerifier, logger)(api))

	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Serve until interrupted, then drain
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
}
