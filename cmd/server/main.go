package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/policy"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage/s3"
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
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier for the identity provider
	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	repos := service.Repositories{
		Documents:   postgres.NewDocumentRepository(repoConfig),
		Folders:     postgres.NewFolderRepository(repoConfig),
		Versions:    postgres.NewVersionRepository(repoConfig),
		AccessRules: postgres.NewAccessRuleRepository(repoConfig),
		Tags:        postgres.NewTagRepository(repoConfig),
		Comments:    postgres.NewCommentRepository(repoConfig),
		AuditLog:    postgres.NewAuditLogRepository(repoConfig),
		TxManager:   postgres.NewTransactionManager(pool),
	}

	// Action policy registry
	policies, err := policy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize policy registry: %v", err)
	}
	logger.Info("policy registry initialized")

	// Object store
	store, err := s3.NewStore(s3.Config{
		Bucket:          cfg.StorageBucket,
		Region:          cfg.StorageRegion,
		Endpoint:        cfg.StorageEndpoint,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
	})
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	svcs := service.New(repos, policies, store, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(svcs.Documents, logger)
	folderHandler := handler.NewFolderHandler(svcs.Folders, logger)
	versionHandler := handler.NewVersionHandler(svcs.Versions, logger)
	shareHandler := handler.NewShareHandler(svcs.Sharing, logger)
	commentHandler := handler.NewCommentHandler(svcs.Comments, logger)
	auditHandler := handler.NewAuditHandler(svcs.Audit, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders", folderHandler.ListChildren)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.Get)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.Rename)
	mux.HandleFunc("POST /api/folders/{id}/move", folderHandler.Move)
	mux.HandleFunc("POST /api/folders/{id}/archive", folderHandler.Archive)
	mux.HandleFunc("POST /api/folders/{id}/restore", folderHandler.Restore)
	mux.HandleFunc("GET /api/folders/{id}/path", folderHandler.Path)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.Create)
	mux.HandleFunc("GET /api/documents", docHandler.List)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.Get)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.Update)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.Delete)
	mux.HandleFunc("POST /api/documents/{id}/archive", docHandler.Archive)
	mux.HandleFunc("POST /api/documents/{id}/restore", docHandler.Restore)
	mux.HandleFunc("PUT /api/documents/{id}/tags", docHandler.SetTags)

	// Version routes
	mux.HandleFunc("POST /api/documents/{id}/versions/upload-intent", versionHandler.CreateUploadIntent)
	mux.HandleFunc("POST /api/documents/{id}/versions", versionHandler.Create)
	mux.HandleFunc("GET /api/documents/{id}/versions", versionHandler.List)
	mux.HandleFunc("POST /api/documents/{id}/versions/{versionID}/restore", versionHandler.SetCurrent)
	mux.HandleFunc("GET /api/documents/{id}/download", versionHandler.Download)

	// Sharing routes
	mux.HandleFunc("POST /api/documents/{id}/shares", shareHandler.Grant)
	mux.HandleFunc("DELETE /api/documents/{id}/shares", shareHandler.Revoke)
	mux.HandleFunc("GET /api/documents/{id}/shares", shareHandler.List)

	// Comment routes
	mux.HandleFunc("POST /api/documents/{id}/comments", commentHandler.Create)
	mux.HandleFunc("GET /api/documents/{id}/comments", commentHandler.List)
	mux.HandleFunc("DELETE /api/documents/{id}/comments/{commentID}", commentHandler.Delete)

	// Audit routes
	mux.HandleFunc("GET /api/documents/{id}/audit", auditHandler.List)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Auth → Routes
	h = middleware.Auth(verifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
