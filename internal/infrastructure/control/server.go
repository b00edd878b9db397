// Package control exposes the command dispatcher and the event stream over a
// local websocket.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/ui/dispatcher"
	"github.com/bnema/arkium/internal/ui/eventbus"
)

const (
	// Path is the websocket endpoint.
	Path = "/ws"

	writeTimeout    = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMessageBytes = 1 << 20
	sendDepth       = 256
	shutdownTimeout = 5 * time.Second
)

// Dispatcher executes one command.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd dispatcher.Command) dispatcher.Reply
}

// EventSource hands out event subscriptions.
type EventSource interface {
	Subscribe() (<-chan port.Event, func())
}

// Server serves the control channel.
type Server struct {
	addr     string
	dispatch Dispatcher
	events   EventSource
	upgrader websocket.Upgrader
	ctx      context.Context

	mu       sync.Mutex
	sessions map[string]*session
	listener net.Listener
}

// Config holds the collaborators of a Server.
type Config struct {
	ListenAddr string
	Dispatcher Dispatcher
	Events     EventSource
}

// NewServer creates a server. ctx carries the logger.
func NewServer(ctx context.Context, cfg Config) *Server {
	return &Server{
		addr:     cfg.ListenAddr,
		dispatch: cfg.Dispatcher,
		events:   cfg.Events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     localOrigin,
		},
		ctx:      logging.WithComponent(ctx, "control"),
		sessions: make(map[string]*session),
	}
}

// localOrigin accepts non-browser clients and pages served from loopback.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Handler returns the HTTP handler of the control channel.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+Path, s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	return mux
}

// Addr returns the bound address once Serve is listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Serve listens on the configured address until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log := logging.FromContext(s.ctx)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().Str("addr", ln.Addr().String()).Msg("control channel listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.closeSessions()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown control channel: %w", err)
	}
	return nil
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(s.ctx)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess := newSession(s.ctx, conn)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		sess.close()
		logging.FromContext(sess.ctx).Debug().Msg("control session closed")
	}()

	logging.FromContext(sess.ctx).Debug().Str("remote", r.RemoteAddr).Msg("control session opened")

	go sess.writeLoop()
	if s.events != nil {
		events, cancel := s.events.Subscribe()
		defer cancel()
		go sess.forward(events)
	}
	s.readLoop(sess)
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// readLoop dispatches commands in arrival order. Each reply carries the
// "ref" the client sent with the command.
func (s *Server) readLoop(sess *session) {
	log := logging.FromContext(sess.ctx)

	sess.conn.SetReadLimit(maxMessageBytes)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("control read failed")
			}
			return
		}
		_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))

		var envelope struct {
			Ref json.RawMessage `json:"ref"`
		}
		_ = json.Unmarshal(data, &envelope)

		var reply dispatcher.Reply
		var cmd dispatcher.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			reply = dispatcher.Reply{Error: fmt.Sprintf("malformed command: %v", err)}
		} else {
			reply = s.dispatch.Dispatch(sess.ctx, cmd)
		}

		frame, err := json.Marshal(replyFrame{Type: "reply", Ref: envelope.Ref, Reply: reply})
		if err != nil {
			log.Warn().Err(err).Str("command", cmd.Type).Msg("encode reply failed")
			continue
		}
		if !sess.send(frame) {
			return
		}
	}
}

// replyFrame is the wire shape of a reply.
type replyFrame struct {
	Type string          `json:"type"`
	Ref  json.RawMessage `json:"ref,omitempty"`
	dispatcher.Reply
}

type session struct {
	id     string
	conn   *websocket.Conn
	ctx    context.Context
	out    chan []byte
	done   chan struct{}
	closed sync.Once
}

func newSession(ctx context.Context, conn *websocket.Conn) *session {
	id := uuid.NewString()
	log := logging.FromContext(ctx).With().Str("session", id).Logger()
	return &session{
		id:   id,
		conn: conn,
		ctx:  logging.WithContext(ctx, log),
		out:  make(chan []byte, sendDepth),
		done: make(chan struct{}),
	}
}

// send queues a frame. It reports false once the session is closed. A slow
// client that fills its queue is disconnected.
func (s *session) send(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- frame:
		return true
	default:
		logging.FromContext(s.ctx).Warn().Msg("control client too slow, disconnecting")
		s.close()
		return false
	}
}

func (s *session) forward(events <-chan port.Event) {
	log := logging.FromContext(s.ctx)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			frame, err := eventbus.Encode(ev)
			if err != nil {
				log.Warn().Err(err).Msg("encode event failed")
				continue
			}
			if !s.send(frame) {
				return
			}
		}
	}
}

// writeLoop is the only writer of conn.
func (s *session) writeLoop() {
	defer s.conn.Close()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case frame := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *session) close() {
	s.closed.Do(func() {
		close(s.done)
		// Unblock the reader; the writer sends the close frame.
		_ = s.conn.SetReadDeadline(time.Now())
	})
}
