package webserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/cert"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// Default listener ports.
const (
	DefaultSecurePort   = 4443
	DefaultInsecurePort = 8080
)

// DefaultShutdownTimeout bounds the graceful shutdown of a listener.
const DefaultShutdownTimeout = 5 * time.Second

// Errors.
var (
	// ErrServerStart is returned when the listeners cannot be started.
	ErrServerStart = errors.New("server start failed")

	ErrInvalidRoute = errors.New("invalid route")
)

// State is the server lifecycle state.
type State uint8

const (
	StateStopped State = iota
	StateStarting
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Route is one entry of the route table. A Path ending in "*" matches any
// suffix.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// DefaultRoutes returns the demonstration route table.
func DefaultRoutes() []Route {
	return []Route{{
		Method: http.MethodGet,
		Path:   "/test",
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("ok"))
		},
	}}
}

// Config configures a Server. It is copied at construction.
type Config struct {
	// CertPEM and KeyPEM are the TLS identity.
	CertPEM []byte
	KeyPEM  []byte

	// Host is the listen host. Empty listens on all interfaces.
	Host string

	// SecurePort and InsecurePort default to DefaultSecurePort and
	// DefaultInsecurePort. Use -1 for an ephemeral port.
	SecurePort   int
	InsecurePort int

	// DisableInsecure skips the plaintext listener.
	DisableInsecure bool

	// Routes defaults to DefaultRoutes.
	Routes []Route

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Logger *slog.Logger
	Trace  log.Logger
}

// Server owns the secure and plaintext listeners.
type Server struct {
	cfg    Config
	logger *slog.Logger
	trace  log.Logger

	// mu serializes Start and Stop.
	mu         sync.Mutex
	state      State
	servers    []*http.Server
	listeners  []net.Listener
	secureAddr net.Addr
	plainAddr  net.Addr
	pending    *time.Timer
	pendingGen uint64

	errs   chan error
	ready  atomic.Bool
	starts atomic.Uint64
}

// New creates a stopped server.
func New(cfg Config) *Server {
	if cfg.SecurePort == 0 {
		cfg.SecurePort = DefaultSecurePort
	}
	if cfg.InsecurePort == 0 {
		cfg.InsecurePort = DefaultInsecurePort
	}
	if cfg.Routes == nil {
		cfg.Routes = DefaultRoutes()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:    cfg,
		logger: logger.With("component", "webserver"),
		trace:  log.OrNoop(cfg.Trace),
		errs:   make(chan error, 1),
	}
}

// Start starts the listeners, restarting them if already running.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked("start")
}

// StartAfter schedules Start after delay and returns. A start already
// pending is replaced. A failed delayed start is reported on Errors.
func (s *Server) StartAfter(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := s.cancelPendingLocked()
	gen := s.pendingGen
	s.pending = time.AfterFunc(delay, func() { s.delayedStart(gen) })
	s.logger.Info("delayed start scheduled", "delay", delay, "replaced", replaced)
}

func (s *Server) delayedStart(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.pendingGen || s.pending == nil {
		return
	}
	s.pending = nil
	if err := s.startLocked("delayed start"); err != nil {
		select {
		case s.errs <- err:
		default:
			s.logger.Warn("dropping start error, previous one not consumed", "error", err)
		}
	}
}

// CancelPending cancels a pending delayed start. It reports whether one was
// pending.
func (s *Server) CancelPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelPendingLocked()
}

func (s *Server) cancelPendingLocked() bool {
	s.pendingGen++
	if s.pending == nil {
		return false
	}
	s.pending.Stop()
	s.pending = nil
	return true
}

// Pending reports whether a delayed start is outstanding.
func (s *Server) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Stop cancels a pending start and stops the listeners. Stopping a stopped
// server is a no-op.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPendingLocked() {
		s.logger.Info("pending start cancelled")
	}
	s.stopLocked("stop")
}

func (s *Server) startLocked(reason string) error {
	if s.state == StateRunning {
		s.logger.Info("restarting server")
		s.stopLocked("restart")
	}
	s.setStateLocked(StateStarting, reason)

	servers, lns, err := s.listen()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrServerStart, err)
		s.logger.Error("server start failed", "error", err)
		s.trace.Log(log.NewErrorEvent(log.ComponentServer, reason, err, true))
		s.setStateLocked(StateStopped, "start failed")
		return err
	}

	s.servers = servers
	s.listeners = lns
	s.secureAddr = lns[0].Addr()
	if len(lns) > 1 {
		s.plainAddr = lns[1].Addr()
	}
	s.starts.Inc()
	s.ready.Store(true)
	s.setStateLocked(StateRunning, reason)
	s.logger.Info("server started", "secure", s.secureAddr, "insecure", s.plainAddr)
	return nil
}

// listen binds both listeners and starts serving. The listeners are bound
// before listen returns; on error nothing is left listening.
func (s *Server) listen() ([]*http.Server, []net.Listener, error) {
	pair, err := cert.LoadKeyPair(s.cfg.CertPEM, s.cfg.KeyPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("tls identity: %w", err)
	}
	handler, err := s.router()
	if err != nil {
		return nil, nil, err
	}

	secureLn, err := net.Listen("tcp", hostPort(s.cfg.Host, s.cfg.SecurePort))
	if err != nil {
		return nil, nil, err
	}
	tlsLn := tls.NewListener(secureLn, &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	})
	servers := []*http.Server{s.newHTTPServer(handler)}
	lns := []net.Listener{tlsLn}

	if !s.cfg.DisableInsecure {
		plainLn, err := net.Listen("tcp", hostPort(s.cfg.Host, s.cfg.InsecurePort))
		if err != nil {
			_ = secureLn.Close()
			return nil, nil, err
		}
		servers = append(servers, s.newHTTPServer(handler))
		lns = append(lns, plainLn)
	}

	for i, srv := range servers {
		go s.serve(srv, lns[i])
	}
	return servers, lns, nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener) {
	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		s.logger.Error("listener failed", "addr", ln.Addr(), "error", err)
		s.trace.Log(log.NewErrorEvent(log.ComponentServer, "serve", err, false))
	}
}

func (s *Server) newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
	}
}

func (s *Server) router() (http.Handler, error) {
	mux := chi.NewRouter()
	mux.Use(s.httpLogger)
	for _, rt := range s.cfg.Routes {
		if rt.Handler == nil || !strings.HasPrefix(rt.Path, "/") || !validMethod(rt.Method) {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidRoute, rt.Method, rt.Path)
		}
		mux.Method(rt.Method, rt.Path, rt.Handler)
	}
	return mux, nil
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.logger, next)
}

func (s *Server) stopLocked(reason string) {
	if s.state == StateStopped {
		return
	}
	s.ready.Store(false)
	for _, srv := range s.servers {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed", "error", err)
			_ = srv.Close()
		}
		cancel()
	}
	// Shutdown only closes listeners Serve has picked up; a serve goroutine
	// that has not run yet would leave its port bound.
	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.servers = nil
	s.listeners = nil
	s.secureAddr = nil
	s.plainAddr = nil
	s.setStateLocked(StateStopped, reason)
	s.logger.Info("server stopped", "reason", reason)
}

func (s *Server) setStateLocked(st State, reason string) {
	old := s.state
	s.state = st
	if old != st {
		s.trace.Log(log.NewStateEvent(log.ComponentServer, log.StateEntityServer, old.String(), st.String(), reason))
	}
}

// State returns the lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether the listeners are serving.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

// SecureAddr returns the TLS listener address, or nil when stopped.
func (s *Server) SecureAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secureAddr
}

// InsecureAddr returns the plaintext listener address, or nil when stopped
// or disabled.
func (s *Server) InsecureAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plainAddr
}

// Listeners returns the number of live listener sets (0 or 1).
func (s *Server) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.servers) == 0 {
		return 0
	}
	return 1
}

// Starts returns how many times the listeners were started.
func (s *Server) Starts() uint64 {
	return s.starts.Load()
}

// Errors delivers failures of delayed starts.
func (s *Server) Errors() <-chan error {
	return s.errs
}

func hostPort(host string, port int) string {
	if port < 0 {
		port = 0
	}
	return net.JoinHostPort(host, fmt.Sprint(port))
}

func validMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}
