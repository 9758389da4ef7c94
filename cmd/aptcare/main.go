package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"

	"github.com/hoangnv/aptcare/internal/adapter/fsm"
	"github.com/hoangnv/aptcare/internal/adapter/otel"
	"github.com/hoangnv/aptcare/internal/adapter/river"
	"github.com/hoangnv/aptcare/internal/adapter/sqlite"
	"github.com/hoangnv/aptcare/internal/app"
	"github.com/hoangnv/aptcare/internal/domain"

	handler "github.com/hoangnv/aptcare/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("aptcare: %v", err)
	}
}

func run() error {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "aptcare.db")

	ctx := context.Background()

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer store.Close()

	riverClient, err := river.Setup(ctx, db)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			slog.Warn("river stop", "error", err)
		}
	}()

	bookingRepo := otel.NewTracingRepository(store.Bookings())
	publisher := otel.NewTracingPublisher(river.NewPublisher(riverClient))

	// --- Application ---
	tenancy := app.NewTenancyService(store.Apartments())
	bookings := app.NewBookingService(bookingRepo, store.Apartments(), store.Users(), publisher, fsm.New())

	if os.Getenv("APTCARE_SEED") == "1" {
		seedDemoData(ctx, store)
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware("aptcare", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("aptcare", "0.1.0"))
	handler.Register(api, tenancy, bookings)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("aptcare listening", "port", port)
		slog.Info("API docs", "url", "http://localhost:"+port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("stopped")
	return nil
}

// seedDemoData inserts a small cast of users and apartments for local
// development. Inserts that collide with rows from a previous run are
// logged and skipped.
func seedDemoData(ctx context.Context, store *sqlite.Store) {
	users := []struct {
		id, name string
		role     domain.Role
	}{
		{"u-admin", "Alice Admin", domain.RoleAdmin},
		{"u-tech", "Binh Technician", domain.RoleTechnician},
		{"u-tenant", "Chau Tenant", domain.RoleUser},
	}
	for _, u := range users {
		if err := store.Users().Create(ctx, u.id, u.name, u.role); err != nil {
			slog.Debug("seed user skipped", "id", u.id, "error", err)
		}
	}

	for _, a := range []struct{ id, number string }{
		{"a-101", "A101"},
		{"a-102", "A102"},
		{"a-201", "B201"},
	} {
		if err := store.Apartments().Create(ctx, domain.NewApartment(a.id, a.number)); err != nil {
			slog.Debug("seed apartment skipped", "id", a.id, "error", err)
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
