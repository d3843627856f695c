package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nimbusconsole/apiserver/config"
	"github.com/nimbusconsole/apiserver/internal/auth"
	"github.com/nimbusconsole/apiserver/internal/dashboard"
	"github.com/nimbusconsole/apiserver/internal/db"
	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/internal/handlers"
	"github.com/nimbusconsole/apiserver/internal/reports"
	"github.com/nimbusconsole/apiserver/internal/services"
	"github.com/nimbusconsole/apiserver/internal/storage"
	"github.com/nimbusconsole/apiserver/internal/store"
)

// devJWTSecret is the historical fallback. Only ever used when
// ENV=dev; production startup fails without an explicit secret.
const devJWTSecret = "dev-jwt-secret-key"

// Server wraps the HTTP server, router, and backend connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *events.Bus
	cancel     context.CancelFunc
}

// New constructs a Server: selects the configured backends, wires the
// auth and dashboard layers, and registers routes and middleware.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	secret, err := resolveSecret(cfg)
	if err != nil {
		return nil, err
	}
	authority := auth.NewAuthority([]byte(secret), cfg.Auth.TokenTTL)

	userRepo, dbConn, err := newUserRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	userService := services.NewUserService(userRepo)

	bus, err := newEventBus(ctx, cfg)
	if err != nil {
		closeDB(dbConn)
		return nil, err
	}

	objectStore, err := newObjectStorage(ctx, cfg)
	if err != nil {
		closeDB(dbConn)
		_ = bus.Close()
		return nil, err
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		closeDB(dbConn)
		_ = bus.Close()
		return nil, err
	}

	catalog := dashboard.NewCatalog()
	feed := dashboard.NewActivityFeed()
	reportService := reports.NewService(objectStore, catalog)

	feedCtx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = feed.Consume(feedCtx, bus)
	}()

	requireAuth := handlers.RequireAuth(authority)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, authority, bus)
	})
	router.Route("/api/dashboard", func(r chi.Router) {
		r.Use(requireAuth)
		handlers.DashboardRouter(r, catalog, feed, reportService, bus)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 4003
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
		cancel:     cancel,
	}, nil
}

// Router exposes the chi router for route registration and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.bus != nil {
		_ = s.bus.Close()
	}
	closeDB(s.db)
	return s.httpServer.Close()
}

// resolveSecret enforces the fail-fast invariant: no guessable default
// outside a dev posture.
func resolveSecret(cfg config.Config) (string, error) {
	secret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if secret != "" {
		return secret, nil
	}
	if cfg.IsDev() {
		return devJWTSecret, nil
	}
	return "", errors.New("JWT_SECRET is required")
}

func newUserRepository(ctx context.Context, cfg config.Config) (services.UserRepository, *sql.DB, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return store.NewMemoryUserRepository(), nil, nil
	case "postgres":
		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresUserRepository(dbConn), dbConn, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newEventBus(ctx context.Context, cfg config.Config) (*events.Bus, error) {
	switch cfg.Events.Backend {
	case "", "memory":
		return events.New(events.NewMemoryBackend()), nil
	case "rabbitmq":
		backend, err := events.NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	case "pubsub":
		backend, err := events.NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}

func newObjectStorage(ctx context.Context, cfg config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return storage.NewMemoryStorage(cfg.Minio.Bucket), nil
	case "minio":
		return storage.NewMinioClient(cfg.Minio)
	case "gcs":
		return storage.NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func closeDB(dbConn *sql.DB) {
	if dbConn != nil {
		_ = dbConn.Close()
	}
}
