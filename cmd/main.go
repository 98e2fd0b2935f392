// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gieo-gita/summit-registration/internal/auth"
	"github.com/gieo-gita/summit-registration/internal/config"
	"github.com/gieo-gita/summit-registration/internal/database"
	"github.com/gieo-gita/summit-registration/internal/handler"
	"github.com/gieo-gita/summit-registration/internal/mailer"
	"github.com/gieo-gita/summit-registration/internal/metrics"
	"github.com/gieo-gita/summit-registration/internal/notify"
	"github.com/gieo-gita/summit-registration/internal/repository"
	"github.com/gieo-gita/summit-registration/internal/service"
)

func main() {
	ctx := context.Background()
	cfg := config.FromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── 1. Schema, then connect to PostgreSQL ────────────────────────────
	if err := database.Migrate(cfg.Database.URL()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db := database.NewLazyPool(func(ctx context.Context) (*pgxpool.Pool, error) {
		return database.NewPool(ctx, cfg.Database)
	})
	pool, err := db.Get(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres", "db", cfg.Database.DBName)

	// ── 2. Wire up layers ────────────────────────────────────────────────
	m := metrics.New(prometheus.DefaultRegisterer)

	sender, err := mailer.NewSMTP(cfg.SMTP)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	dispatcher := notify.NewDispatcher(sender, cfg.SMTP.AdminEmail, cfg.DashboardURL, logger, m)
	dispatcher.Start()

	guests := repository.NewGuestRepository(pool)
	svc := service.New(guests, dispatcher, logger, m)
	sessions := auth.New(cfg.Admin, cfg.Session, logger)
	guestHandler := handler.NewGuestHandler(svc, sessions, logger)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)  // recover from panics, return 500
	r.Use(chimiddleware.RequestID)  // attach request IDs
	r.Use(chimiddleware.RealIP)     // trust X-Forwarded-For
	r.Use(handler.Logger(logger))   // structured access log
	r.Use(handler.CORS)             // form may live on a static origin

	// Health and metrics
	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// Public intake
	r.Post("/api/guests", guestHandler.RegisterGuest)

	// Admin API
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", guestHandler.Login)
		r.Post("/logout", guestHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireAdmin)
			r.Get("/registrations", guestHandler.ListRegistrations)
			r.Get("/registrations/stats", guestHandler.Stats)
			r.Get("/registrations/export", guestHandler.ExportCSV)
		})
	})

	// Static site – landing page, registration form, admin dashboard shell.
	webFS := http.Dir("./web")
	r.Handle("/*", http.FileServer(webFS))

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	dispatcher.Stop(shutdownCtx)
	logger.Info("server stopped")
}
