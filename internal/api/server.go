// Package api serves the property calculator over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/propertycalc/internal/insights"
	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/risk"
)

// Store is the persistence the API reads and writes.
type Store interface {
	CreateProperty(ctx context.Context, in model.PropertyInputs) (*model.Property, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	ListPropertiesByPostcode(ctx context.Context, postcode string) ([]model.Property, error)
	CreateSharedReport(ctx context.Context, snapshot model.Snapshot, ttl time.Duration) (*model.SharedReport, error)
	GetSharedReport(ctx context.Context, shareID string) (*model.SharedReport, error)
}

// Config holds server dependencies and settings.
type Config struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	Store          Store
	// Insights is optional; without it the insights route answers 503.
	Insights insights.Generator
	Risk     risk.Model
	ShareTTL time.Duration
	Now      func() time.Time
}

// Server is the HTTP API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	store    Store
	insights insights.Generator
	risk     risk.Model
	shareTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// New builds a server with its middleware and routes registered.
func New(cfg Config) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Risk.Factors()) == 0 {
		cfg.Risk = risk.DefaultModel()
	}
	if cfg.ShareTTL <= 0 {
		cfg.ShareTTL = 30 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		router:   chi.NewRouter(),
		store:    cfg.Store,
		insights: cfg.Insights,
		risk:     cfg.Risk,
		shareTTL: cfg.ShareTTL,
		now:      cfg.Now,
		log:      zap.L().With(zap.String("component", "api")),
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(cfg.Timeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.handleListProperties)
			r.Post("/", s.handleCreateProperty)
			r.Get("/postcode/{postcode}", s.handleListByPostcode)
			r.Post("/insights", s.handleInsights)
		})

		r.Post("/calculate", s.handleCalculate)

		r.Route("/calculators", func(r chi.Router) {
			r.Post("/loan", s.handleLoan)
			r.Post("/roi", s.handleROI)
			r.Post("/tax", s.handleTax)
		})

		r.Get("/market", s.handleMarket)

		r.Route("/reports/share", func(r chi.Router) {
			r.Post("/", s.handleCreateShare)
			r.Get("/{shareId}", s.handleGetShare)
			r.Get("/{shareId}/export", s.handleExportShare)
		})
	})
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "api: listen")
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return eris.Wrap(s.server.Shutdown(ctx), "api: shutdown")
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
