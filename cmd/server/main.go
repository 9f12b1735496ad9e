// Command server runs the listing API over the configured backend.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	app "github.com/staynest/listing_layer/internal/app"
	"github.com/staynest/listing_layer/internal/app/facade"
	"github.com/staynest/listing_layer/internal/app/httpapi"
	"github.com/staynest/listing_layer/internal/app/reconciler"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/app/storage/memory"
	"github.com/staynest/listing_layer/internal/app/storage/postgres"
	"github.com/staynest/listing_layer/internal/config"
	apperrors "github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/logging"
	"github.com/staynest/listing_layer/internal/metrics"
	"github.com/staynest/listing_layer/internal/middleware"
	"github.com/staynest/listing_layer/internal/security"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if path := os.Getenv("SETTINGS_FILE"); path != "" {
		if err := config.ApplySettingsFile(cfg, path); err != nil {
			return err
		}
	}

	log := logging.New("listing-server", cfg.Log.Level)

	store, cleanup, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	application := app.New(app.Options{Store: store, Log: log})

	if err := seedAdmin(context.Background(), application, cfg, log); err != nil {
		return err
	}

	rec := reconciler.New(store, cfg.Reconciler.Schedule, log)
	if err := rec.Start(); err != nil {
		return fmt.Errorf("start reconciler: %w", err)
	}
	defer rec.Stop()

	tokens := security.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	m := metrics.New("listing_layer")

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", httpapi.NewHandler(application, tokens))

	auth := middleware.NewAuthMiddleware(tokens, log, []string{
		"/health", "/metrics", "/api/v1/auth/login",
	})
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(10 * time.Minute)

	var handler http.Handler = mux
	handler = limiter.Handler(handler)
	handler = auth.Handler(handler)
	handler = middleware.MetricsMiddleware(m)(handler)
	handler = middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins).Handler(handler)
	handler = middleware.NewTracingMiddleware(log).Handler(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// openStore selects the backend: a DATABASE_URL means postgres, empty
// means the in-memory store.
func openStore(cfg *config.Config, log *logging.Logger) (storage.Store, func(), error) {
	if cfg.Database.URL == "" {
		log.Info("using in-memory store")
		return memory.New(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store := postgres.New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Info("using postgres store")
	return store, func() { db.Close() }, nil
}

// seedAdmin creates the bootstrap administrator when credentials are
// configured and no users exist yet.
func seedAdmin(ctx context.Context, application *app.Application, cfg *config.Config, log *logging.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	users, err := application.Facade.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	created, err := application.Facade.CreateUser(ctx, facade.CreateUserInput{
		FirstName: "Admin",
		LastName:  "User",
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		IsAdmin:   true,
	})
	if err != nil {
		if apperrors.IsValidationError(err) {
			return fmt.Errorf("seed admin: %w", err)
		}
		return err
	}

	log.WithField("user_id", created.ID).Info("bootstrap admin created")
	return nil
}
