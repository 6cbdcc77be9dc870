// Package server serves the treemap over HTTP.
//
// Routes:
//
//	GET /                 page shell with the interactive SVG chart
//	GET /treemap.svg      chart as SVG
//	GET /treemap.png      chart as PNG
//	GET /api/layout       layout export (JSON)
//	GET /api/categories   current categories and summary (JSON)
//	GET /healthz          liveness and data freshness
//	GET /ws               websocket; receives {"generation": id} after each refresh
//
// Chart routes accept width, height and padding query parameters.
//
// Categories are fetched once at startup and then on the configured cron
// schedule. Every request renders from the latest snapshot with its own
// chart, so requests never share mutable widget state.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"

	"github.com/matzehuels/coinmap/pkg/cache"
	"github.com/matzehuels/coinmap/pkg/widget"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	artifactTTL     = time.Hour

	defaultWidth  = 960
	defaultHeight = widget.ContainerHeight
)

// Config holds server configuration.
type Config struct {
	Addr   string
	Logger *log.Logger

	// Source provides categories, normally the CoinGecko client.
	Source widget.Source
	// Artifacts caches rendered output per fetch generation. Nil disables it.
	Artifacts cache.Cache
	Keyer     cache.Keyer

	// Refresh is a cron spec ("@every 5m"). Empty disables periodic refresh.
	Refresh        string
	AllowedOrigins []string

	Width, Height, Padding float64
}

// Server represents the HTTP server.
type Server struct {
	cfg      Config
	router   *chi.Mux
	server   *http.Server
	log      *log.Logger
	store    *store
	hub      *hub
	cron     *cron.Cron
	upgrader websocket.Upgrader
}

// New creates a server. Nothing is fetched until [Server.Run] or
// [Server.Load].
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Artifacts == nil {
		cfg.Artifacts = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = defaultWidth, defaultHeight
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		log:    cfg.Logger.WithPrefix("server"),
		store:  &store{},
		hub:    newHub(),
		cron:   cron.New(),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.Addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/", s.handlePage)
		r.Get("/treemap.svg", s.handleArtifact("svg"))
		r.Get("/treemap.png", s.handleArtifact("png"))
		r.Get("/healthz", s.handleHealth)

		r.Route("/api", func(r chi.Router) {
			r.Get("/categories", s.handleCategories)
			r.Get("/layout", s.handleArtifact("json"))
		})
	})

	// Websocket connections outlive the request timeout.
	s.router.Get("/ws", s.handleLive)
}

// Run loads categories, starts the refresh schedule and serves until ctx is
// cancelled. A failed initial load is logged and served as the error state.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Load(ctx, false); err != nil {
		s.log.Warn("initial fetch failed", "err", err)
	}
	if err := s.schedule(); err != nil {
		return err
	}
	s.cron.Start()
	defer func() { <-s.cron.Stop().Done() }()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.closeAll()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) schedule() error {
	if s.cfg.Refresh == "" {
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.Refresh, func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := s.Load(ctx, true); err != nil {
			s.log.Error("refresh failed", "err", err)
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("refresh scheduled", "schedule", s.cfg.Refresh)
	return nil
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
