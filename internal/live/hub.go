package live

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/monarkh/site/internal/telemetry"
)

// Config tunes live sessions.
type Config struct {
	Options Options

	QueueSize      int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64

	// CheckOrigin validates the upgrade request. Default: SameOrigin.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the settings used by the server.
func DefaultConfig() Config {
	return Config{
		Options:        DefaultOptions(),
		QueueSize:      64,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingPeriod:     50 * time.Second,
		MaxMessageSize: 4096,
		CheckOrigin:    SameOrigin,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.ReadTimeout {
		c.PingPeriod = c.ReadTimeout * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = SameOrigin
	}
	return c
}

// SameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// Hub upgrades live connections and tracks their sessions.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader
	signups  Subscriber
	metrics  *telemetry.Metrics
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewHub creates a hub. signups, metrics and logger may be nil.
func NewHub(cfg Config, signups Subscriber, metrics *telemetry.Metrics, logger *slog.Logger) *Hub {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		signups:  signups,
		metrics:  metrics,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and serves the session until it ends.
// The layout is chosen by the "page" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	layout, ok := LayoutByName(r.URL.Query().Get("page"))
	if !ok {
		http.Error(w, "unknown page", http.StatusNotFound)
		return
	}
	if h.ctx.Err() != nil {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		h.logger.Debug("upgrade failed", "error", err)
		h.metrics.WebSocketError("upgrade")
		return
	}

	s := newSession(uuid.NewString(), conn, layout, h.cfg, h.signups, h.metrics, h.logger)
	if !h.add(s) {
		conn.Close()
		return
	}
	defer h.remove(s)

	s.logger.Debug("session opened")
	if err := s.Run(h.ctx); err != nil {
		s.logger.Warn("session ended", "error", err)
		return
	}
	s.logger.Debug("session closed")
}

func (h *Hub) add(s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	h.sessions[s.id] = s
	h.wg.Add(1)
	h.metrics.SessionOpened()
	return true
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
	h.metrics.SessionClosed()
	h.wg.Done()
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close ends every session and waits for them to unmount, or for ctx.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	h.cancel()
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
