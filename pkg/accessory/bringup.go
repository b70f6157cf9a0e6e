package accessory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// DefaultServiceName is the Name of the outlet service.
const DefaultServiceName = "My Accessory"

// Errors. ErrInit and ErrStart are fatal to the bring-up.
var (
	ErrInit           = errors.New("accessory init failed")
	ErrStart          = errors.New("accessory start failed")
	ErrNotInitialized = errors.New("accessory not initialized")
)

// DefaultInfo returns the identity of the demonstration accessory.
func DefaultInfo() Info {
	return Info{
		Name:             "mwe test",
		Model:            "MWE01",
		Manufacturer:     "MWE",
		SerialNumber:     "001122334455",
		FirmwareRevision: "0.9.0",
		ProtocolVersion:  "1.1.0",
		Category:         CategoryOutlet,
		ProductData:      []byte("ESP32HAP"),
	}
}

// Config configures a Bringup.
type Config struct {
	Info Info

	// ServiceName defaults to DefaultServiceName.
	ServiceName string

	Transport TransportMode

	// HardwareAuth enables hardware-backed authentication at init.
	HardwareAuth bool

	Logger *slog.Logger
	Trace  log.Logger
}

// Bringup initializes and starts the accessory runtime.
type Bringup struct {
	cfg     Config
	runtime Runtime
	logger  *slog.Logger
	trace   log.Logger

	mu        sync.Mutex
	accessory *Accessory
	started   bool

	identifies atomic.Uint64
	writes     atomic.Uint64
}

// NewBringup creates a Bringup for rt.
func NewBringup(cfg Config, rt Runtime) *Bringup {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bringup{
		cfg:     cfg,
		runtime: rt,
		logger:  logger.With("component", "accessory"),
		trace:   log.OrNoop(cfg.Trace),
	}
}

// Init initializes the runtime and registers the accessory.
func (b *Bringup) Init() error {
	if err := b.runtime.Init(b.cfg.Transport); err != nil {
		return b.fatal(ErrInit, "init runtime", err)
	}
	if err := b.cfg.Info.Validate(); err != nil {
		return b.fatal(ErrInit, "validate info", err)
	}

	acc := NewAccessory(b.cfg.Info, b.identify)
	outlet := NewOutletService(false, false).
		AddCharacteristic(NewNameCharacteristic(b.cfg.ServiceName)).
		SetPrimary(true).
		SetWriteFunc(b.write)
	if err := acc.AddService(outlet); err != nil {
		return b.fatal(ErrInit, "add service", err)
	}
	if err := b.runtime.AddAccessory(acc); err != nil {
		return b.fatal(ErrInit, "add accessory", err)
	}
	if b.cfg.HardwareAuth {
		if err := b.runtime.EnableHardwareAuth(); err != nil {
			return b.fatal(ErrInit, "enable hardware auth", err)
		}
	}

	b.mu.Lock()
	b.accessory = acc
	b.mu.Unlock()

	b.logger.Info("accessory initialized",
		"name", b.cfg.Info.Name,
		"category", b.cfg.Info.Category,
		"hardware_auth", b.cfg.HardwareAuth)
	b.trace.Log(log.NewStateEvent(log.ComponentAccessory, log.StateEntityAccessory, "", "INITIALIZED", "init"))
	return nil
}

// Start starts the accessory transport.
func (b *Bringup) Start() error {
	b.mu.Lock()
	initialized := b.accessory != nil
	b.mu.Unlock()
	if !initialized {
		return b.fatal(ErrStart, "start", ErrNotInitialized)
	}
	if err := b.runtime.Start(); err != nil {
		return b.fatal(ErrStart, "start runtime", err)
	}

	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	b.logger.Info("accessory started")
	b.trace.Log(log.NewStateEvent(log.ComponentAccessory, log.StateEntityAccessory, "INITIALIZED", "STARTED", "start"))
	return nil
}

// Stop stops the accessory transport if started.
func (b *Bringup) Stop() error {
	b.mu.Lock()
	started := b.started
	b.started = false
	b.mu.Unlock()
	if !started {
		return nil
	}
	return b.runtime.Stop()
}

// Accessory returns the registered accessory, or nil before Init.
func (b *Bringup) Accessory() *Accessory {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accessory
}

// IsWiFiProvisioned asks the runtime whether station credentials are stored.
func (b *Bringup) IsWiFiProvisioned() bool {
	return b.runtime.IsWiFiProvisioned()
}

// Identifies returns the number of identify requests handled.
func (b *Bringup) Identifies() uint64 { return b.identifies.Load() }

// Writes returns the number of write batches handled.
func (b *Bringup) Writes() uint64 { return b.writes.Load() }

func (b *Bringup) identify(*Accessory) Status {
	b.identifies.Inc()
	b.logger.Info("accessory identified")
	return StatusSuccess
}

func (b *Bringup) write(writes []WriteOp, _ *Service, _ any) Status {
	b.writes.Inc()
	b.logger.Info("accessory write", "count", len(writes))
	for _, w := range writes {
		b.logger.Debug("characteristic write", "type", w.Characteristic.Type(), "iid", w.Characteristic.IID(), "value", w.Value)
	}
	return StatusSuccess
}

func (b *Bringup) fatal(kind error, op string, err error) error {
	err = fmt.Errorf("%w: %s: %w", kind, op, err)
	b.logger.Error("accessory bring-up failed", "op", op, "error", err)
	b.trace.Log(log.NewErrorEvent(log.ComponentAccessory, op, err, true))
	return err
}
