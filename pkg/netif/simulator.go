package netif

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
)

// Poster delivers notifications into the event-dispatch mechanism.
type Poster interface {
	Post(ctx context.Context, source event.Source, id event.ID, data any) error
}

// Network is a simulated access point.
type Network struct {
	SSID       string `yaml:"ssid"`
	Passphrase string `yaml:"passphrase"`
	Channel    uint8  `yaml:"channel"`
}

// DefaultConnectDelay is the simulated association latency.
const DefaultConnectDelay = 50 * time.Millisecond

// DefaultAddress is assigned when neither Address nor Interface is set.
var DefaultAddress = netip.MustParsePrefix("192.168.4.2/24")

// SimulatorConfig configures a Simulator.
type SimulatorConfig struct {
	// Poster receives WIFI_EVENT and IP_EVENT notifications.
	Poster Poster

	// Store holds the station configuration. Nil means an in-memory store.
	Store persistence.StationStore

	// Networks are the reachable access points. When empty every SSID is
	// reachable and every passphrase accepted.
	Networks []Network

	// ConnectDelay is the time between Connect and the outcome event.
	ConnectDelay time.Duration

	// Address is the station address handed out on association.
	Address netip.Prefix

	// Interface takes the station address from a host interface instead.
	Interface string

	Logger *slog.Logger
}

// SimulatorStatus is a snapshot of the simulator.
type SimulatorStatus struct {
	Mode            Mode
	Started         bool
	Connected       bool
	SSID            string
	Address         netip.Prefix
	ConnectAttempts uint64
	Disconnects     uint64
}

// Simulator is a host implementation of Driver.
type Simulator struct {
	cfg    SimulatorConfig
	store  persistence.StationStore
	logger *slog.Logger

	mu          sync.Mutex
	netifReady  bool
	station     bool
	accessPoint bool
	driverReady bool
	mode        Mode
	started     bool
	connected   bool
	ssid        string
	apConfig    AccessPointConfig
	pending     *time.Timer
	generation  uint64

	attempts    atomic.Uint64
	disconnects atomic.Uint64
}

// NewSimulator creates a simulator.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.ConnectDelay <= 0 {
		cfg.ConnectDelay = DefaultConnectDelay
	}
	store := cfg.Store
	if store == nil {
		store = persistence.NewMemoryStore(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Simulator{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "netif"),
	}
}

// InitNetif initializes the network interface layer.
func (s *Simulator) InitNetif() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.netifReady = true
	return nil
}

// CreateDefaultStation creates the default station interface.
func (s *Simulator) CreateDefaultStation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.netifReady {
		return ErrNetifNotInitialized
	}
	if s.station {
		return fmt.Errorf("station: %w", ErrInterfaceExists)
	}
	s.station = true
	return nil
}

// CreateDefaultAccessPoint creates the default access-point interface.
func (s *Simulator) CreateDefaultAccessPoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.netifReady {
		return ErrNetifNotInitialized
	}
	if s.accessPoint {
		return fmt.Errorf("access point: %w", ErrInterfaceExists)
	}
	s.accessPoint = true
	return nil
}

// Init initializes the driver.
func (s *Simulator) Init(cfg DriverConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.netifReady {
		return ErrNetifNotInitialized
	}
	s.driverReady = true
	s.mode = ModeStation
	s.logger.Debug("wifi driver initialized", "country", cfg.Country, "persist", cfg.PersistCredentials)
	return nil
}

// SetMode selects the operating mode. Switching mode while started
// stops the interfaces that are no longer active.
func (s *Simulator) SetMode(mode Mode) error {
	if mode > ModeAccessPointStation {
		return ErrInvalidMode
	}

	s.mu.Lock()
	if !s.driverReady {
		s.mu.Unlock()
		return ErrDriverNotInitialized
	}
	if mode.HasStation() && !s.station {
		s.mu.Unlock()
		return fmt.Errorf("station: %w", ErrNoInterface)
	}
	if mode.HasAccessPoint() && !s.accessPoint {
		s.mu.Unlock()
		return fmt.Errorf("access point: %w", ErrNoInterface)
	}
	old := s.mode
	s.mode = mode
	started := s.started
	s.mu.Unlock()

	s.logger.Debug("wifi mode set", "old", old, "new", mode)
	if started && old.HasAccessPoint() && !mode.HasAccessPoint() {
		s.post(event.SourceWiFi, EventAccessPointStop, nil)
	}
	return nil
}

// Mode returns the current mode.
func (s *Simulator) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Start starts the driver.
func (s *Simulator) Start() error {
	s.mu.Lock()
	if !s.driverReady {
		s.mu.Unlock()
		return ErrDriverNotInitialized
	}
	if s.mode == ModeNull {
		s.mu.Unlock()
		return ErrInvalidMode
	}
	mode := s.mode
	s.started = true
	s.mu.Unlock()

	s.logger.Info("wifi started", "mode", mode)
	if mode.HasAccessPoint() {
		s.post(event.SourceWiFi, EventAccessPointStart, nil)
	}
	if mode.HasStation() {
		s.post(event.SourceWiFi, EventStationStart, nil)
	}
	return nil
}

// Stop stops the driver.
func (s *Simulator) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	mode := s.mode
	s.started = false
	wasConnected := s.connected
	s.connected = false
	s.cancelPendingLocked()
	s.mu.Unlock()

	if mode.HasStation() {
		if wasConnected {
			s.post(event.SourceIP, EventStationLostIP, nil)
		}
		s.post(event.SourceWiFi, EventStationStop, nil)
	}
	if mode.HasAccessPoint() {
		s.post(event.SourceWiFi, EventAccessPointStop, nil)
	}
	return nil
}

// Connect starts an association attempt with the stored configuration.
func (s *Simulator) Connect() error {
	creds, err := s.StationConfig()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if !s.mode.HasStation() {
		return fmt.Errorf("connect in %s mode: %w", s.mode, ErrInvalidMode)
	}

	s.attempts.Inc()
	s.cancelPendingLocked()
	gen := s.generation
	s.pending = time.AfterFunc(s.cfg.ConnectDelay, func() {
		s.completeConnect(gen, creds)
	})
	s.logger.Debug("station connecting", "ssid", creds.SSID)
	return nil
}

// Disconnect drops the station connection.
func (s *Simulator) Disconnect() error {
	return s.SimulateDisconnect(ReasonAssocLeave)
}

// SimulateDisconnect drops the association with the given reason, as if
// the access point had gone away.
func (s *Simulator) SimulateDisconnect(reason DisconnectReason) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.cancelPendingLocked()
	wasConnected := s.connected
	s.connected = false
	ssid := s.ssid
	s.mu.Unlock()

	if wasConnected {
		s.post(event.SourceIP, EventStationLostIP, nil)
	}
	s.disconnects.Inc()
	s.post(event.SourceWiFi, EventStationDisconnected, StationDisconnected{SSID: ssid, Reason: reason})
	return nil
}

// StationConfig returns the stored station configuration.
func (s *Simulator) StationConfig() (Credentials, error) {
	st, err := s.store.Load()
	if err != nil {
		return Credentials{}, fmt.Errorf("load station config: %w", err)
	}
	if !st.Configured() {
		return Credentials{}, ErrNotConfigured
	}
	return Credentials{SSID: st.SSID, Passphrase: st.Passphrase}, nil
}

// SetStationConfig stores the station configuration.
func (s *Simulator) SetStationConfig(creds Credentials) error {
	if creds.Empty() || len(creds.SSID) > 32 {
		return ErrInvalidSSID
	}
	return s.store.Save(&persistence.StationState{
		SSID:       creds.SSID,
		Passphrase: creds.Passphrase,
		Source:     "driver",
	})
}

// ForgetStation erases the stored station configuration.
func (s *Simulator) ForgetStation() error {
	return s.store.Clear()
}

// SetAccessPointConfig configures the soft access point.
func (s *Simulator) SetAccessPointConfig(cfg AccessPointConfig) error {
	if cfg.SSID == "" || len(cfg.SSID) > 32 {
		return ErrInvalidSSID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apConfig = cfg
	return nil
}

// AccessPointConfig returns the soft access point configuration.
func (s *Simulator) AccessPointConfig() AccessPointConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apConfig
}

// Status returns a snapshot of the simulator.
func (s *Simulator) Status() SimulatorStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SimulatorStatus{
		Mode:            s.mode,
		Started:         s.started,
		Connected:       s.connected,
		SSID:            s.ssid,
		ConnectAttempts: s.attempts.Load(),
		Disconnects:     s.disconnects.Load(),
	}
	if s.connected {
		st.Address, _ = s.address()
	}
	return st
}

// ConnectAttempts returns the number of Connect calls that started an attempt.
func (s *Simulator) ConnectAttempts() uint64 {
	return s.attempts.Load()
}

func (s *Simulator) cancelPendingLocked() {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Simulator) completeConnect(gen uint64, creds Credentials) {
	reason, ok := s.authenticate(creds)

	s.mu.Lock()
	if gen != s.generation || !s.started || !s.mode.HasStation() {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("station association failed", "ssid", creds.SSID, "reason", reason)
		s.disconnects.Inc()
		s.post(event.SourceWiFi, EventStationDisconnected, StationDisconnected{SSID: creds.SSID, Reason: reason})
		return
	}
	s.connected = true
	s.ssid = creds.SSID
	addr, err := s.address()
	s.mu.Unlock()

	s.post(event.SourceWiFi, EventStationConnected, StationConnected{SSID: creds.SSID, Channel: s.channel(creds.SSID)})
	if err != nil {
		s.logger.Warn("no station address", "error", err)
		return
	}
	s.logger.Info("station got address", "ssid", creds.SSID, "addr", addr)
	s.post(event.SourceIP, EventStationGotIP, IPAcquired{Addr: addr, Gateway: gatewayOf(addr), Changed: true})
}

func (s *Simulator) authenticate(creds Credentials) (DisconnectReason, bool) {
	if len(s.cfg.Networks) == 0 {
		return 0, true
	}
	for _, n := range s.cfg.Networks {
		if n.SSID != creds.SSID {
			continue
		}
		if n.Passphrase != creds.Passphrase {
			return ReasonAuthFail, false
		}
		return 0, true
	}
	return ReasonNoAccessPointFound, false
}

func (s *Simulator) channel(ssid string) uint8 {
	for _, n := range s.cfg.Networks {
		if n.SSID == ssid && n.Channel != 0 {
			return n.Channel
		}
	}
	return 1
}

func (s *Simulator) address() (netip.Prefix, error) {
	if s.cfg.Address.IsValid() {
		return s.cfg.Address, nil
	}
	if s.cfg.Interface == "" {
		return DefaultAddress, nil
	}
	return interfaceAddress(s.cfg.Interface)
}

func (s *Simulator) post(source event.Source, id event.ID, data any) {
	if s.cfg.Poster == nil {
		return
	}
	if err := s.cfg.Poster.Post(context.Background(), source, id, data); err != nil {
		s.logger.Warn("failed to post event", "source", source, "id", id, "error", err)
	}
}

// interfaceAddress returns the first IPv4 address of the named interface.
func interfaceAddress(name string) (netip.Prefix, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return netip.Prefix{}, err
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return netip.Prefix{}, err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipnet.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		if !ip.Is4() {
			continue
		}
		bits, _ := ipnet.Mask.Size()
		return netip.PrefixFrom(ip, bits), nil
	}
	return netip.Prefix{}, fmt.Errorf("no IPv4 address on %s", name)
}

func gatewayOf(p netip.Prefix) netip.Addr {
	return p.Masked().Addr().Next()
}

var _ Driver = (*Simulator)(nil)
