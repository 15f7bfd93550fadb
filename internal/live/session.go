package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/monarkh/site/internal/sched"
	"github.com/monarkh/site/internal/telemetry"
)

var errPeerGone = errors.New("peer gone")

// Subscriber stores a newsletter signup. It reports whether the address
// was new.
type Subscriber interface {
	Subscribe(ctx context.Context, email, source string) (bool, error)
}

// Session drives one Page from one websocket connection. Every Page call
// happens on the session's loop.
type Session struct {
	id      string
	conn    *websocket.Conn
	cfg     Config
	loop    *sched.Loop
	page    *Page
	signups Subscriber
	source  string
	metrics *telemetry.Metrics
	logger  *slog.Logger

	// Loop-owned.
	dirty bool
	seq   uint64

	mu      sync.Mutex
	pending []byte
	wake    chan struct{}
}

func newSession(id string, conn *websocket.Conn, layout Layout, cfg Config, signups Subscriber, metrics *telemetry.Metrics, logger *slog.Logger) *Session {
	s := &Session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		signups: signups,
		source:  "live:" + layout.Name,
		metrics: metrics,
		logger:  logger.With("session", id, "page", layout.Name),
		wake:    make(chan struct{}, 1),
	}
	s.loop = sched.NewLoop(cfg.QueueSize, s.logger)
	s.page = NewPage(sched.RealClock(s.loop), layout, cfg.Options)
	s.page.OnChange(func() { s.dirty = true })
	s.loop.AfterEach(s.flush)
	return s
}

// ID returns the session id sent in every frame.
func (s *Session) ID() string { return s.id }

// Run serves the connection until the peer leaves, a read or write fails,
// or ctx is done. The page is always unmounted before Run returns.
func (s *Session) Run(ctx context.Context) error {
	s.loop.Dispatch(s.page.Mount)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.loop.Run(ctx) })
	g.Go(func() error { return s.writeLoop(ctx) })
	g.Go(func() error { return s.readLoop(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		// Unblocks ReadMessage.
		s.conn.Close()
		return nil
	})

	err := g.Wait()
	s.page.Unmount()
	s.loop.Close()

	if errors.Is(err, errPeerGone) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) readLoop(ctx context.Context) error {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "error", err)
				s.metrics.WebSocketError("read")
			}
			return errPeerGone
		}

		msg, err := decodeMessage(data)
		if err != nil {
			s.logger.Debug("message decode error", "error", err)
			s.metrics.WebSocketError("decode")
			continue
		}
		s.metrics.MessageReceived(msg.Type)

		if msg.Type == MsgSubscribe {
			status := s.subscribe(ctx, msg.Email)
			if !s.loop.Dispatch(func() { s.page.Flash(status) }) {
				return errPeerGone
			}
			continue
		}
		if !s.loop.Dispatch(func() { s.handle(msg) }) {
			return errPeerGone
		}
	}
}

// subscribe runs off the loop; only the resulting flash is dispatched.
func (s *Session) subscribe(ctx context.Context, email string) string {
	if s.signups == nil {
		return FlashError
	}
	if _, err := s.signups.Subscribe(ctx, email, s.source); err != nil {
		s.logger.Info("signup rejected", "error", err)
		return FlashError
	}
	return FlashSuccess
}

func (s *Session) handle(msg Message) {
	switch msg.Type {
	case MsgMount:
		s.page.MountRegion(msg.Region)
	case MsgUnmount:
		s.page.UnmountRegion(msg.Region)
	case MsgIntersect:
		s.page.Intersect(msg.Region, msg.Ratio)
	case MsgNav:
		s.page.Navigate(msg.Dir)
	case MsgConfigure:
		cfg, ok := s.page.RegionConfig(msg.Region)
		if !ok {
			return
		}
		if msg.Threshold != nil {
			cfg.Threshold = *msg.Threshold
		}
		if msg.RootMargin != "" {
			cfg.RootMargin = msg.RootMargin
		}
		s.page.Reconfigure(msg.Region, cfg)
	default:
		s.logger.Debug("unknown message type", "type", msg.Type)
	}
}

// flush runs after every loop turn and hands at most one frame to the
// writer. A frame the writer has not picked up yet is replaced.
func (s *Session) flush() {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.seq++

	snap := s.page.Snapshot()
	data, err := json.Marshal(Frame{Type: FrameState, Session: s.id, Seq: s.seq, State: &snap})
	if err != nil {
		s.logger.Error("frame encode error", "error", err)
		return
	}

	s.mu.Lock()
	s.pending = data
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) takePending() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.pending
	s.pending = nil
	return data
}

func (s *Session) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.wake:
			data := s.takePending()
			if data == nil {
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.metrics.WebSocketError("write")
				return fmt.Errorf("failed to write frame: %w", err)
			}
			s.metrics.FrameSent()

		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.metrics.WebSocketError("ping")
				return fmt.Errorf("failed to send ping: %w", err)
			}

		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return nil
		}
	}
}
