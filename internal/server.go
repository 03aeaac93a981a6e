package internal

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"mgc-projects-api/internal/auth"
	"mgc-projects-api/internal/config"
	"mgc-projects-api/internal/dashboard"
	"mgc-projects-api/internal/mirror"
	"mgc-projects-api/internal/store"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Server struct {
	DB         *sql.DB
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Gateway    dashboard.Gateway
	Collection *dashboard.Collection
	Mirror     *mirror.Store
}

func NewServer(dsn string, cfg *config.Config) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// The mirror is a best-effort reload cache; a broken mirror file must not
	// keep the server from starting.
	var snap *mirror.Store
	if cfg.MirrorPath != "" {
		snap, err = mirror.Open(cfg.MirrorPath)
		if err != nil {
			log.Printf("Mirror disabled: %v", err)
			snap = nil
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	metrics := NewMetrics()
	gw := store.New(db)

	s := &Server{
		DB:         db,
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    metrics,
		Gateway:    gw,
		Mirror:     snap,
	}
	if snap != nil {
		s.Collection = dashboard.NewCollection(gw, snap)
	} else {
		s.Collection = dashboard.NewCollection(gw, nil)
	}
	metrics.ObserveCollectionSize(s.Collection.Len)

	// Mount public routes FIRST (no middleware)
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db: down", http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("db: ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Public auth routes (no JWT required)
	s.Router.Post("/auth/login", s.loginUser)

	// Mount metrics if enabled
	if os.Getenv("ENABLE_METRICS") == "true" {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Everything behind the authenticated gate
	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.Mirror != nil {
		if err := s.Mirror.Close(); err != nil {
			log.Printf("Failed to close mirror: %v", err)
		}
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// mountProtectedRoutes mounts all routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router) {
	r.Get("/projects", s.listProjects)
	r.Post("/projects/refresh", s.refreshProjects)
	r.Get("/projects/areas", s.listAreas)
	r.Get("/projects/export", s.exportProjects)
	r.Post("/projects", s.createProject)
	r.Put("/projects/{id}", s.updateProject)
	r.Delete("/projects/{id}", s.deleteProject)

	// User management mirrors the dashboard's new-user modal; admin only.
	r.With(auth.MustAdmin()).Post("/users", s.createUser)
}
