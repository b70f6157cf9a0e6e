package provisioning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
)

// DefaultEndDelay is the time between a successful connection and the
// end of the provisioning session.
const DefaultEndDelay = time.Second

// Registrar is the part of the event router the manager uses.
type Registrar interface {
	Register(source event.Source, id event.ID, handler event.Handler) (event.HandlerID, error)
	Unregister(id event.HandlerID) error
}

// Mounter exposes the provisioning endpoints on a shared HTTP listener.
type Mounter interface {
	MountProvisioning(h http.Handler)
	UnmountProvisioning()
}

// Station states reported by get_status.
const (
	StationStateIdle         = "idle"
	StationStateConnecting   = "connecting"
	StationStateConnected    = "connected"
	StationStateDisconnected = "disconnected"
)

// SoftAPConfig configures a SoftAPManager.
type SoftAPConfig struct {
	Driver  netif.Driver
	Poster  netif.Poster
	Events  Registrar
	Mounter Mounter

	// Advertiser announces the provisioning service. Nil disables it.
	Advertiser discovery.Advertiser

	// Port is the port of the shared HTTP listener, for the advertisement.
	// Zero asks the Mounter, if it has a Port method.
	Port int

	// EndDelay defaults to DefaultEndDelay.
	EndDelay time.Duration

	Logger *slog.Logger
	Trace  log.Logger
}

// SoftAPManager runs provisioning sessions over a soft access point.
type SoftAPManager struct {
	cfg    SoftAPConfig
	logger *slog.Logger
	trace  log.Logger
	router chi.Router

	mu          sync.Mutex
	initialized bool
	running     bool
	security    SecurityTier
	pop         string
	session     deviceSession
	sessionID   string
	pending     *netif.Credentials
	applying    bool
	succeeded   bool
	staState    string
	failReason  *FailReason
	handlers    []event.HandlerID
	endTimer    *time.Timer
}

// NewSoftAPManager creates a manager.
func NewSoftAPManager(cfg SoftAPConfig) *SoftAPManager {
	if cfg.EndDelay <= 0 {
		cfg.EndDelay = DefaultEndDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &SoftAPManager{
		cfg:      cfg,
		logger:   logger.With("component", "prov-mgr"),
		trace:    log.OrNoop(cfg.Trace),
		staState: StationStateIdle,
	}
	m.router = m.routes()
	return m
}

// Init prepares the manager for scheme.
func (m *SoftAPManager) Init(scheme Scheme) error {
	if scheme != SchemeSoftAP {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return fmt.Errorf("%w: already initialized", ErrInvalidState)
	}
	m.initialized = true
	m.mu.Unlock()

	m.post(EventInit, nil)
	return nil
}

// IsProvisioned reports whether the driver holds a station configuration.
func (m *SoftAPManager) IsProvisioned() (bool, error) {
	m.mu.Lock()
	initialized := m.initialized
	m.mu.Unlock()
	if !initialized {
		return false, fmt.Errorf("%w: not initialized", ErrInvalidState)
	}

	_, err := m.cfg.Driver.StationConfig()
	if errors.Is(err, netif.ErrNotConfigured) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StartProvisioning brings up the soft access point and the provisioning
// endpoints.
func (m *SoftAPManager) StartProvisioning(security SecurityTier, pop string, serviceName string, serviceKey *string) error {
	if security > SecurityAuthenticatedEncrypted {
		return fmt.Errorf("%w: %s", ErrInvalidIdentity, security)
	}

	m.mu.Lock()
	if !m.initialized || m.running {
		m.mu.Unlock()
		return fmt.Errorf("%w: initialized=%v running=%v", ErrInvalidState, m.initialized, m.running)
	}
	m.mu.Unlock()

	ap := netif.AccessPointConfig{SSID: serviceName, Channel: 1, MaxClients: 4}
	if serviceKey != nil {
		ap.Passphrase = *serviceKey
	}
	if err := m.cfg.Driver.SetAccessPointConfig(ap); err != nil {
		return fmt.Errorf("configure access point: %w", err)
	}
	if err := m.cfg.Driver.SetMode(netif.ModeAccessPointStation); err != nil {
		return fmt.Errorf("set apsta mode: %w", err)
	}

	ids, err := m.registerHandlers()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.running = true
	m.security = security
	m.pop = pop
	m.session = nil
	m.sessionID = ""
	m.pending = nil
	m.applying = false
	m.succeeded = false
	m.staState = StationStateIdle
	m.failReason = nil
	m.handlers = ids
	m.mu.Unlock()

	if err := m.cfg.Driver.Start(); err != nil {
		m.stopService()
		return fmt.Errorf("start wifi: %w", err)
	}
	if m.cfg.Mounter != nil {
		m.cfg.Mounter.MountProvisioning(m.router)
	}
	if m.cfg.Advertiser != nil {
		info := &discovery.ProvisioningInfo{ServiceName: serviceName, SecurityVer: uint8(security), Port: m.port()}
		if err := m.cfg.Advertiser.AdvertiseProvisioning(context.Background(), info); err != nil {
			m.logger.Warn("failed to advertise provisioning service", "error", err)
		}
	}

	m.logger.Info("provisioning service started", "service", serviceName, "security", security)
	m.post(EventStarted, nil)
	return nil
}

// Deinit stops the service if running and releases the manager.
func (m *SoftAPManager) Deinit() {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return
	}
	running := m.running
	m.mu.Unlock()

	if running {
		m.stopService()
	}

	m.mu.Lock()
	m.initialized = false
	m.session = nil
	m.pending = nil
	m.mu.Unlock()

	m.post(EventDeinit, nil)
}

// Running reports whether a provisioning session is open.
func (m *SoftAPManager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Handler returns the provisioning endpoints.
func (m *SoftAPManager) Handler() http.Handler {
	return m.router
}

func (m *SoftAPManager) registerHandlers() ([]event.HandlerID, error) {
	var ids []event.HandlerID
	for _, reg := range []struct {
		source event.Source
		id     event.ID
		h      event.Handler
	}{
		{event.SourceWiFi, netif.EventStationDisconnected, m.handleDisconnected},
		{event.SourceIP, netif.EventStationGotIP, m.handleGotIP},
	} {
		hid, err := m.cfg.Events.Register(reg.source, reg.id, reg.h)
		if err != nil {
			for _, id := range ids {
				_ = m.cfg.Events.Unregister(id)
			}
			return nil, fmt.Errorf("register %s handler: %w", reg.source, err)
		}
		ids = append(ids, hid)
	}
	return ids, nil
}

// stopService tears down the access point, the endpoints and the
// advertisement.
func (m *SoftAPManager) stopService() {
	m.mu.Lock()
	if m.endTimer != nil {
		m.endTimer.Stop()
		m.endTimer = nil
	}
	ids := m.handlers
	m.handlers = nil
	m.running = false
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.cfg.Events.Unregister(id)
	}
	if m.cfg.Mounter != nil {
		m.cfg.Mounter.UnmountProvisioning()
	}
	if m.cfg.Advertiser != nil {
		_ = m.cfg.Advertiser.StopProvisioning()
	}
	if m.cfg.Driver.Mode().HasAccessPoint() {
		if err := m.cfg.Driver.SetMode(netif.ModeStation); err != nil {
			m.logger.Warn("failed to switch to station mode", "error", err)
		}
	}
}

func (m *SoftAPManager) handleDisconnected(ev event.Event) {
	d, _ := ev.Data.(netif.StationDisconnected)

	m.mu.Lock()
	if !m.running || !m.applying {
		m.mu.Unlock()
		return
	}
	reason := FailReasonFor(d.Reason)
	m.applying = false
	m.staState = StationStateDisconnected
	m.failReason = &reason
	m.mu.Unlock()

	m.logger.Warn("credentials rejected", "ssid", d.SSID, "reason", reason)
	m.post(EventCredentialsFailed, CredentialsFailed{Reason: reason})
}

func (m *SoftAPManager) handleGotIP(event.Event) {
	m.mu.Lock()
	if !m.running || m.succeeded {
		m.mu.Unlock()
		return
	}
	m.succeeded = true
	m.applying = false
	m.staState = StationStateConnected
	m.failReason = nil
	m.endTimer = time.AfterFunc(m.cfg.EndDelay, m.finish)
	m.mu.Unlock()

	m.post(EventCredentialsSuccess, nil)
}

// finish ends a successful session.
func (m *SoftAPManager) finish() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.endTimer = nil
	m.mu.Unlock()

	m.stopService()
	m.logger.Info("provisioning session ended")
	m.post(EventEnded, nil)
}

func (m *SoftAPManager) port() int {
	if m.cfg.Port != 0 {
		return m.cfg.Port
	}
	if p, ok := m.cfg.Mounter.(interface{ Port() int }); ok {
		return p.Port()
	}
	return 0
}

func (m *SoftAPManager) post(id event.ID, data any) {
	if m.cfg.Poster == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.cfg.Poster.Post(ctx, event.SourceProvisioning, id, data); err != nil {
		m.logger.Warn("failed to post provisioning event", "id", id, "error", err)
		m.trace.Log(log.NewErrorEvent(log.ComponentProvisioning, "post event", err, false))
	}
}

var _ Manager = (*SoftAPManager)(nil)
