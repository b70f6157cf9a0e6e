package provisioning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/gate"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
)

// DefaultServerStartDelay is the delay between connectivity readiness and
// the secure server start.
const DefaultServerStartDelay = 5 * time.Second

// ReconnectPolicy controls station reconnection after a disconnect.
// The zero value reconnects immediately on every disconnect.
type ReconnectPolicy struct {
	// Backoff enables exponential backoff between attempts.
	Backoff bool

	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func (p ReconnectPolicy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 1 {
		b.Multiplier = p.Multiplier
	}
	// No attempt ceiling.
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Config configures a Controller.
type Config struct {
	Identity  ServiceIdentity
	Scheme    Scheme
	Authority Authority

	// ServerStartDelay is passed to ServerStarter.StartAfter.
	ServerStartDelay time.Duration

	Reconnect ReconnectPolicy
	Driver    netif.DriverConfig

	Logger *slog.Logger
	Trace  log.Logger
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Driver     netif.Driver
	Dispatcher Dispatcher
	Manager    Manager
	Accessory  StatusSource
	Server     ServerStarter
}

// Controller runs network initialization and the provisioning decision.
type Controller struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
	trace  log.Logger

	mu            sync.Mutex
	state         State
	initialized   bool
	deciding      bool
	connected     *gate.Gate // created once; callers may hold it across Init
	provHandlerID event.HandlerID
	provHandler   bool
	apCreated     bool
	backoff       backoff.BackOff
	lastErr       error
	closed        bool

	reconnects atomic.Uint64
	startCalls atomic.Uint64
}

// NewController creates a controller. Init must be called before Provision.
func NewController(cfg Config, deps Deps) *Controller {
	if cfg.Scheme == "" {
		cfg.Scheme = SchemeSoftAP
	}
	if cfg.ServerStartDelay <= 0 {
		cfg.ServerStartDelay = DefaultServerStartDelay
	}
	if cfg.Driver == (netif.DriverConfig{}) {
		cfg.Driver = netif.DefaultDriverConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		cfg:       cfg,
		deps:      deps,
		logger:    logger.With("component", "provisioning"),
		trace:     log.OrNoop(cfg.Trace),
		connected: gate.New(),
	}
	if cfg.Reconnect.Backoff {
		c.backoff = cfg.Reconnect.newBackOff()
	}
	return c
}

// Init initializes the network stack, the event dispatch and the Wi-Fi
// driver. Any failure is an ErrNetworkInit and fatal to the bring-up.
func (c *Controller) Init() error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.mu.Unlock()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"init netif", c.deps.Driver.InitNetif},
		{"start event loop", c.deps.Dispatcher.Start},
		{"register wifi handler", func() error {
			_, err := c.deps.Dispatcher.Register(event.SourceWiFi, event.AnyID, c.handleWiFiEvent)
			return err
		}},
		{"register ip handler", func() error {
			_, err := c.deps.Dispatcher.Register(event.SourceIP, netif.EventStationGotIP, c.handleIPEvent)
			return err
		}},
		{"create station interface", c.deps.Driver.CreateDefaultStation},
		{"init wifi driver", func() error { return c.deps.Driver.Init(c.cfg.Driver) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrNetworkInit, step.name, err)
			c.logger.Error("network init failed", "step", step.name, "error", err)
			c.trace.Log(log.NewErrorEvent(log.ComponentNetwork, step.name, err, true))
			return err
		}
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	c.logger.Info("network stack initialized")
	return nil
}

// Provision runs the provisioning decision. Failures are logged, leave the
// controller in StateProvisioningFailed and can be retried by calling
// Provision again. Concurrent calls are ignored while one decision or
// provisioning session is in progress.
func (c *Controller) Provision() {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		c.fail("provision", ErrNotInitialized)
		return
	}
	if c.deciding || c.state == StateProvisioning {
		c.mu.Unlock()
		c.logger.Warn("provisioning already in progress")
		return
	}
	c.deciding = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.deciding = false
		c.mu.Unlock()
	}()

	if err := c.deps.Manager.Init(c.cfg.Scheme); err != nil {
		c.fail("init provisioning manager", err)
		return
	}

	managerProvisioned, err := c.deps.Manager.IsProvisioned()
	if err != nil {
		c.fail("query provisioning manager", err)
		c.deps.Manager.Deinit()
		return
	}
	accessoryProvisioned := c.deps.Accessory.IsWiFiProvisioned()
	c.logger.Info("provisioning status",
		"manager", managerProvisioned,
		"accessory", accessoryProvisioned,
		"authority", c.cfg.Authority)

	provisioned := accessoryProvisioned
	if c.cfg.Authority == AuthorityManager {
		provisioned = managerProvisioned
	}
	if managerProvisioned != accessoryProvisioned {
		c.logger.Warn("provisioning status sources disagree", "using", c.cfg.Authority)
	}

	if !provisioned {
		c.startProvisioning()
		return
	}
	c.startStation()
}

func (c *Controller) startProvisioning() {
	id := c.cfg.Identity
	if err := id.Validate(); err != nil {
		c.fail("validate service identity", err)
		c.deps.Manager.Deinit()
		return
	}

	c.mu.Lock()
	apCreated := c.apCreated
	c.mu.Unlock()
	if !apCreated {
		if err := c.deps.Driver.CreateDefaultAccessPoint(); err != nil && !errors.Is(err, netif.ErrInterfaceExists) {
			c.fail("create access point interface", err)
			c.deps.Manager.Deinit()
			return
		}
		c.mu.Lock()
		c.apCreated = true
		c.mu.Unlock()
	}

	if err := c.registerProvisioningHandler(); err != nil {
		c.fail("register provisioning handler", err)
		c.deps.Manager.Deinit()
		return
	}

	c.setState(StateProvisioning, "not provisioned")
	c.logger.Info("starting provisioning",
		"service", id.Name,
		"security", id.Security,
		"service_key", id.ServiceKey != nil)
	if err := c.deps.Manager.StartProvisioning(id.Security, id.ProofOfPossession, id.Name, id.ServiceKey); err != nil {
		c.fail("start provisioning", err)
		c.deps.Manager.Deinit()
		return
	}
}

func (c *Controller) startStation() {
	c.logger.Info("already provisioned, starting wifi station")
	c.deps.Manager.Deinit()
	c.setState(StateProvisioned, "stored credentials")

	if err := c.deps.Driver.SetMode(netif.ModeStation); err != nil {
		c.fail("set station mode", err)
		return
	}
	if err := c.deps.Driver.Start(); err != nil {
		c.fail("start wifi", err)
		return
	}
	c.triggerServerStart("station started")
}

func (c *Controller) registerProvisioningHandler() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provHandler {
		return nil
	}
	hid, err := c.deps.Dispatcher.Register(event.SourceProvisioning, event.AnyID, c.handleProvisioningEvent)
	if err != nil {
		return err
	}
	c.provHandlerID = hid
	c.provHandler = true
	return nil
}

func (c *Controller) triggerServerStart(reason string) {
	c.startCalls.Inc()
	c.logger.Info("scheduling secure server start", "delay", c.cfg.ServerStartDelay, "reason", reason)
	c.deps.Server.StartAfter(c.cfg.ServerStartDelay)
}

// handleProvisioningEvent runs on the dispatch goroutine of WIFI_PROV_EVENT.
func (c *Controller) handleProvisioningEvent(ev event.Event) {
	switch ev.ID {
	case EventStarted:
		c.logger.Info("provisioning started")
	case EventCredentialsReceived:
		if creds, ok := ev.Data.(CredentialsReceived); ok {
			c.logger.Info("received wifi credentials", "ssid", creds.SSID)
		} else {
			c.logger.Info("received wifi credentials")
		}
	case EventCredentialsFailed:
		reason := "unknown"
		if f, ok := ev.Data.(CredentialsFailed); ok {
			reason = f.Reason.String()
		}
		c.logger.Warn("provisioning failed", "reason", reason)
		c.trace.Log(log.NewErrorEvent(log.ComponentProvisioning, "credentials", errors.New("credentials failed: "+reason), false))
	case EventCredentialsSuccess:
		c.logger.Info("provisioning successful")
	case EventEnded:
		c.logger.Info("provisioning ended")
		c.deps.Manager.Deinit()
		if c.connected.IsSet() {
			c.setState(StateStationConnected, "provisioning ended")
		} else {
			c.setState(StateProvisioned, "provisioning ended")
		}
		c.triggerServerStart("provisioning ended")
	default:
		c.logger.Debug("provisioning event", "id", ev.ID)
	}
}

// handleWiFiEvent runs on the dispatch goroutine of WIFI_EVENT.
func (c *Controller) handleWiFiEvent(ev event.Event) {
	switch ev.ID {
	case netif.EventStationStart:
		c.mu.Lock()
		if c.state == StateProvisioned {
			c.mu.Unlock()
			c.setState(StateStationConnecting, "station started")
		} else {
			c.mu.Unlock()
		}
		c.connect("station start")
	case netif.EventStationConnected:
		c.logger.Debug("station associated")
	case netif.EventStationDisconnected:
		if d, ok := ev.Data.(netif.StationDisconnected); ok {
			c.logger.Info("station disconnected", "ssid", d.SSID, "reason", d.Reason)
		} else {
			c.logger.Info("station disconnected")
		}
		c.mu.Lock()
		wasConnected := c.state == StateStationConnected
		c.mu.Unlock()
		if wasConnected {
			c.setState(StateStationConnecting, "disconnected")
		}
		c.reconnect()
	default:
		c.logger.Debug("wifi event", "id", ev.ID)
	}
}

// handleIPEvent runs on the dispatch goroutine of IP_EVENT.
func (c *Controller) handleIPEvent(ev event.Event) {
	if ev.ID != netif.EventStationGotIP {
		return
	}
	if ip, ok := ev.Data.(netif.IPAcquired); ok {
		c.logger.Info("got ip", "addr", ip.Addr)
	}

	c.mu.Lock()
	if c.backoff != nil {
		c.backoff.Reset()
	}
	promote := c.state == StateProvisioned || c.state == StateStationConnecting
	g := c.connected
	c.mu.Unlock()

	g.Set()
	if promote {
		c.setState(StateStationConnected, "ip acquired")
	}
}

// reconnect issues exactly one connection attempt, immediately or after
// the next backoff interval.
func (c *Controller) reconnect() {
	c.reconnects.Inc()

	c.mu.Lock()
	if c.backoff == nil {
		c.mu.Unlock()
		c.connect("reconnect")
		return
	}
	delay := c.backoff.NextBackOff()
	c.mu.Unlock()

	c.logger.Debug("reconnecting after backoff", "delay", delay)
	time.AfterFunc(delay, func() {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if !closed {
			c.connect("reconnect")
		}
	})
}

func (c *Controller) connect(reason string) {
	if err := c.deps.Driver.Connect(); err != nil {
		if errors.Is(err, netif.ErrNotConfigured) {
			c.logger.Debug("station not configured, waiting for credentials", "reason", reason)
			return
		}
		c.logger.Warn("wifi connect failed", "reason", reason, "error", err)
	}
}

func (c *Controller) fail(op string, err error) {
	c.logger.Error("provisioning error", "op", op, "error", err)
	c.trace.Log(log.NewErrorEvent(log.ComponentProvisioning, op, err, false))
	c.mu.Lock()
	c.lastErr = fmt.Errorf("%s: %w", op, err)
	c.mu.Unlock()
	c.setState(StateProvisioningFailed, op)
}

func (c *Controller) setState(s State, reason string) {
	c.mu.Lock()
	old := c.state
	c.state = s
	c.mu.Unlock()
	if old == s {
		return
	}
	c.logger.Debug("provisioning state changed", "old", old, "new", s, "reason", reason)
	c.trace.Log(log.NewStateEvent(log.ComponentProvisioning, log.StateEntityProvisioning, old.String(), s.String(), reason))
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the most recent recoverable failure, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Gate returns the connectivity gate. It is set when an address is acquired
// and cleared only by its owner.
func (c *Controller) Gate() *gate.Gate {
	return c.connected
}

// WaitConnected blocks until an address has been acquired or ctx is done.
func (c *Controller) WaitConnected(ctx context.Context) error {
	return c.Gate().Wait(ctx)
}

// Reconnects returns the number of reconnection attempts issued.
func (c *Controller) Reconnects() uint64 {
	return c.reconnects.Load()
}

// ServerStarts returns how many times the secure server start was triggered.
func (c *Controller) ServerStarts() uint64 {
	return c.startCalls.Load()
}

// Close stops pending backoff reconnects.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
