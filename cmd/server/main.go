package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"easyerd/internal/auth"
	"easyerd/internal/config"
	"easyerd/internal/fixture"
	"easyerd/internal/handler"
	"easyerd/internal/middleware"
	"easyerd/internal/notification"
	"easyerd/internal/repository/postgres"
	"easyerd/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier for the external identity provider
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

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	adapter := postgres.NewAdapter(&postgres.AdapterConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	txManager := postgres.NewTransactionManager(pool)

	profiles, err := fixture.NewProfiles()
	if err != nil {
		log.Fatalf("Failed to load profile fixtures: %v", err)
	}

	notifier := notification.NewService(cfg.DiscordWebhookURL, logger)

	apiHandler := handler.New(service.Deps{
		Adapter:  adapter,
		Tx:       txManager,
		Session:  service.ContextSession{},
		Notifier: notifier,
		Profiles: profiles,
		Origin:   cfg.AppOrigin,
		Logger:   logger,
	}, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", apiHandler.HealthCheck)

	mux.HandleFunc("POST /api/members", apiHandler.CreateMember)

	mux.HandleFunc("GET /api/projects", apiHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", apiHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", apiHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", apiHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", apiHandler.DeleteProject)

	mux.HandleFunc("PUT /api/projects/{id}/permissions", apiHandler.UpdatePermission)
	mux.HandleFunc("POST /api/projects/{id}/permissions/members", apiHandler.CreateMemberPermission)
	mux.HandleFunc("DELETE /api/projects/{id}/permissions/members", apiHandler.DeletePermission)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Session → Routes
	root = middleware.Session(verifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
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
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
