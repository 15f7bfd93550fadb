package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/monarkh/site/internal/live"
	"github.com/monarkh/site/internal/newsletter"
	"github.com/monarkh/site/internal/site"
	"github.com/monarkh/site/internal/store"
	"github.com/monarkh/site/internal/telemetry"
)

// Options configure a Server. Zero values fall back to defaults.
type Options struct {
	Port            int
	Token           string // generated when empty
	TokenFile       string
	ShutdownTimeout time.Duration
	Live            live.Config
	Content         *site.Content
	Metrics         *telemetry.Metrics
	Logger          *slog.Logger
}

type Server struct {
	store      *store.SQLiteStore
	newsletter *newsletter.Service
	hub        *live.Hub
	content    site.Content
	port       int
	token      string
	tokenFile  string
	shutdown   time.Duration
	router     chi.Router
	startTime  time.Time
	metrics    *telemetry.Metrics
	logger     *slog.Logger
	printer    *message.Printer
}

func New(s *store.SQLiteStore, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	token := opts.Token
	if token == "" {
		token = generateToken()
	}
	content := site.DefaultContent()
	if opts.Content != nil {
		content = *opts.Content
	}
	shutdown := opts.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}

	svc := newsletter.NewService(s, opts.Metrics, logger)
	srv := &Server{
		store:      s,
		newsletter: svc,
		hub:        live.NewHub(opts.Live, svc, opts.Metrics, logger),
		content:    content,
		port:       opts.Port,
		token:      token,
		tokenFile:  opts.TokenFile,
		shutdown:   shutdown,
		router:     chi.NewRouter(),
		startTime:  time.Now(),
		metrics:    opts.Metrics,
		logger:     logger,
		printer:    message.NewPrinter(language.English),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// Public pages
	r.Get("/", s.handlePage("home", s.content.Footer.Name))
	r.Get("/articles", s.handlePage("articles", "Articles | "+s.content.Footer.Name))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(site.Assets()))))

	// Live channel
	r.Get("/live.js", s.handleLiveJS)
	r.Get("/live", s.hub.ServeHTTP)

	// API
	r.Post("/api/newsletter", s.handleNewsletter)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	// Admin endpoints (protected)
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/admin", s.handleAdmin)
		r.Get("/admin/api/subscribers", s.handleAdminAPI)
	})
}

// Start listens on the configured port and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then drains requests and live
// sessions for at most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// Write token to file for the token command
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.logger.Warn("failed to write token file", "path", s.tokenFile, "error", err)
		}
	}

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()
	s.logger.Info("server started", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		s.hub.Close(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hubErr := s.hub.Close(shutdownCtx)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	if hubErr != nil {
		return fmt.Errorf("failed to close live sessions: %w", hubErr)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Store() *store.SQLiteStore {
	return s.store
}

func (s *Server) Hub() *live.Hub {
	return s.hub
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}
