//	@title			Presigner API
//	@version		1.0
//	@description	Issues time-limited pre-signed URLs for downloading and uploading objects in an S3-compatible bucket.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/presigner/service/internal/config"
	"github.com/presigner/service/internal/db"
	appMiddleware "github.com/presigner/service/internal/middleware"
	"github.com/presigner/service/internal/presign"
	"github.com/presigner/service/internal/storage"

	_ "github.com/presigner/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration failed: %v", err)
	}

	store, err := storage.NewMinioStorage(storage.Options{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.BucketName,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// The audit log is opt-in: without AUDIT_DATABASE_URL the service
	// runs with no database dependency at all.
	var recorder presign.Recorder
	var auditReader presign.AuditReader
	if cfg.AuditDatabaseURL != "" {
		pool, err := db.Connect(cfg.AuditDatabaseURL)
		if err != nil {
			log.Fatalf("audit database connection failed: %v", err)
		}
		defer pool.Close()

		if err := db.Migrate(cfg.AuditDatabaseURL); err != nil {
			log.Fatalf("audit database migration failed: %v", err)
		}

		repo := presign.NewRepository(pool)
		recorder = repo
		auditReader = repo
	} else {
		log.Println("audit log disabled (AUDIT_DATABASE_URL not set)")
	}

	// Wire dependencies: storage → service → handler
	svc := presign.NewService(store, cfg.BucketName, recorder)
	handler := presign.NewHandler(svc, auditReader)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1 — all endpoints require a Bearer token
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
		r.Get("/buckets", handler.Buckets)
		r.Post("/presign/download", handler.PresignDownload)
		r.Post("/presign/upload", handler.PresignUpload)
		r.Get("/audit", handler.Audit)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
