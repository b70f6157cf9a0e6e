package accessory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
)

// DefaultListenAddr is the accessory listener address.
const DefaultListenAddr = ":51826"

// Runtime errors.
var (
	ErrAlreadyInitialized      = errors.New("runtime already initialized")
	ErrAccessoryExists         = errors.New("accessory already registered")
	ErrNoAccessory             = errors.New("no accessory registered")
	ErrAlreadyStarted          = errors.New("runtime already started")
	ErrHardwareAuthUnavailable = errors.New("hardware authentication chip not available")
)

// HTTPRuntimeConfig configures an HTTPRuntime.
type HTTPRuntimeConfig struct {
	// ListenAddr defaults to DefaultListenAddr.
	ListenAddr string

	// Store is the station configuration consulted by IsWiFiProvisioned.
	Store persistence.StationStore

	// Advertiser announces the accessory. Nil disables advertising.
	Advertiser discovery.Advertiser

	// SetupID is the 4 character setup identifier for the setup hash.
	SetupID string

	// HardwareAuthAvailable reports an authentication chip.
	HardwareAuthAvailable bool

	Logger *slog.Logger
	Trace  log.Logger
}

// HTTPRuntime is a Runtime serving the accessory database over HTTP. Its
// listener is shared with the provisioning endpoints.
type HTTPRuntime struct {
	cfg    HTTPRuntimeConfig
	logger *slog.Logger
	trace  log.Logger
	router chi.Router

	mu           sync.Mutex
	initialized  bool
	mode         TransportMode
	accessory    *Accessory
	hardwareAuth bool
	server       *http.Server
	addr         net.Addr
	advertised   bool
	provisioning http.Handler
}

// NewHTTPRuntime creates a runtime.
func NewHTTPRuntime(cfg HTTPRuntimeConfig) *HTTPRuntime {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Store == nil {
		cfg.Store = persistence.NewMemoryStore(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &HTTPRuntime{
		cfg:    cfg,
		logger: logger.With("component", "hap"),
		trace:  log.OrNoop(cfg.Trace),
	}
	r.router = r.routes()
	return r
}

// Init initializes the runtime.
func (r *HTTPRuntime) Init(mode TransportMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.initialized = true
	r.mode = mode
	r.logger.Debug("runtime initialized", "transport", mode)
	return nil
}

// AddAccessory registers the single accessory.
func (r *HTTPRuntime) AddAccessory(a *Accessory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrNotInitialized
	}
	if r.accessory != nil {
		return ErrAccessoryExists
	}
	r.accessory = a
	return nil
}

// EnableHardwareAuth enables hardware-backed authentication.
func (r *HTTPRuntime) EnableHardwareAuth() error {
	if !r.cfg.HardwareAuthAvailable {
		return ErrHardwareAuthUnavailable
	}
	r.mu.Lock()
	r.hardwareAuth = true
	r.mu.Unlock()
	return nil
}

// Start binds the listener and advertises the accessory.
func (r *HTTPRuntime) Start() error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return ErrNotInitialized
	}
	if r.accessory == nil {
		r.mu.Unlock()
		return ErrNoAccessory
	}
	if r.server != nil {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", r.cfg.ListenAddr)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("listen %s: %w", r.cfg.ListenAddr, err)
	}
	srv := &http.Server{Handler: r.router, ReadHeaderTimeout: 10 * time.Second}
	r.server = srv
	r.addr = ln.Addr()
	r.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("accessory listener failed", "error", err)
			r.trace.Log(log.NewErrorEvent(log.ComponentAccessory, "serve", err, false))
		}
	}()
	r.logger.Info("accessory transport started", "addr", ln.Addr())

	if r.cfg.Advertiser != nil {
		if err := r.cfg.Advertiser.AdvertiseAccessory(context.Background(), r.advertInfo()); err != nil {
			r.logger.Warn("failed to advertise accessory", "error", err)
		} else {
			r.mu.Lock()
			r.advertised = true
			r.mu.Unlock()
		}
	}
	return nil
}

// Stop stops advertising and closes the listener.
func (r *HTTPRuntime) Stop() error {
	r.mu.Lock()
	srv := r.server
	advertised := r.advertised
	r.server = nil
	r.addr = nil
	r.advertised = false
	r.mu.Unlock()

	if advertised {
		_ = r.cfg.Advertiser.StopAccessory()
	}
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// RefreshAdvertisement republishes the advertisement, e.g. after the
// station connected.
func (r *HTTPRuntime) RefreshAdvertisement() error {
	r.mu.Lock()
	advertised := r.advertised
	r.mu.Unlock()
	if !advertised {
		return nil
	}
	return r.cfg.Advertiser.UpdateAccessory(r.advertInfo())
}

// IsWiFiProvisioned reports whether the station store holds credentials.
func (r *HTTPRuntime) IsWiFiProvisioned() bool {
	st, err := r.cfg.Store.Load()
	if err != nil {
		r.logger.Error("failed to read station config", "error", err)
		return false
	}
	return st.Configured()
}

// MountProvisioning serves h for every path the runtime does not handle.
func (r *HTTPRuntime) MountProvisioning(h http.Handler) {
	r.mu.Lock()
	r.provisioning = h
	r.mu.Unlock()
	r.logger.Debug("provisioning endpoints mounted")
}

// UnmountProvisioning removes the provisioning handler.
func (r *HTTPRuntime) UnmountProvisioning() {
	r.mu.Lock()
	r.provisioning = nil
	r.mu.Unlock()
	r.logger.Debug("provisioning endpoints unmounted")
}

// Addr returns the listener address, or nil when not started.
func (r *HTTPRuntime) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}

// Port returns the listener port, or the configured port when not started.
func (r *HTTPRuntime) Port() int {
	if addr, ok := r.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	_, p, err := net.SplitHostPort(r.cfg.ListenAddr)
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(p)
	return port
}

// Handler returns the HTTP handler.
func (r *HTTPRuntime) Handler() http.Handler {
	return r.router
}

func (r *HTTPRuntime) advertInfo() *discovery.AccessoryInfo {
	r.mu.Lock()
	acc := r.accessory
	hwAuth := r.hardwareAuth
	r.mu.Unlock()

	info := acc.Info()
	deviceID := discovery.DeviceIDFromSerial(info.SerialNumber)
	ai := &discovery.AccessoryInfo{
		Name:         info.Name,
		DeviceID:     deviceID,
		Model:        info.Model,
		ProtoVersion: info.ProtocolVersion,
		Category:     uint16(info.Category),
		ConfigNumber: 1,
		StateNumber:  1,
		StatusFlags:  discovery.StatusFlagNotPaired,
		Port:         r.Port(),
	}
	if hwAuth {
		ai.FeatureFlags |= discovery.FeatureFlagHardwareAuth
	}
	if !r.IsWiFiProvisioned() {
		ai.StatusFlags |= discovery.StatusFlagNoWiFi
	}
	if r.cfg.SetupID != "" {
		ai.SetupHash = discovery.SetupHash(r.cfg.SetupID, deviceID)
	}
	return ai
}

func (r *HTTPRuntime) routes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Get("/accessories", r.handleAccessories)
	mux.Get("/characteristics", r.handleReadCharacteristics)
	mux.Put("/characteristics", r.handleWriteCharacteristics)
	mux.Post("/identify", r.handleIdentify)
	mux.NotFound(r.serveProvisioning)
	mux.MethodNotAllowed(r.serveProvisioning)
	return mux
}

func (r *HTTPRuntime) serveProvisioning(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	h := r.provisioning
	r.mu.Unlock()
	if h == nil {
		http.NotFound(w, req)
		return
	}
	h.ServeHTTP(w, req)
}

func (r *HTTPRuntime) current() *Accessory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accessory
}

type charJSON struct {
	AID    uint64   `json:"aid,omitempty"`
	IID    uint64   `json:"iid"`
	Type   string   `json:"type,omitempty"`
	Perms  []string `json:"perms,omitempty"`
	Format string   `json:"format,omitempty"`
	Value  any      `json:"value,omitempty"`
	Status *Status  `json:"status,omitempty"`
}

type serviceJSON struct {
	IID             uint64     `json:"iid"`
	Type            string     `json:"type"`
	Primary         bool       `json:"primary,omitempty"`
	Characteristics []charJSON `json:"characteristics"`
}

type accessoryJSON struct {
	AID      uint64        `json:"aid"`
	Services []serviceJSON `json:"services"`
}

type accessoriesJSON struct {
	Accessories []accessoryJSON `json:"accessories"`
}

type characteristicsJSON struct {
	Characteristics []charJSON `json:"characteristics"`
}

func (r *HTTPRuntime) handleAccessories(w http.ResponseWriter, _ *http.Request) {
	acc := r.current()
	if acc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]int{"status": int(StatusResourceAbsent)})
		return
	}
	out := accessoryJSON{AID: acc.AID()}
	for _, s := range acc.Services() {
		sj := serviceJSON{IID: s.IID(), Type: s.Type(), Primary: s.Primary(), Characteristics: []charJSON{}}
		for _, c := range s.Characteristics() {
			cj := charJSON{IID: c.IID(), Type: c.Type(), Perms: c.Perms().Strings(), Format: c.Format().String()}
			if c.Perms().CanRead() {
				cj.Value = c.Value()
			}
			sj.Characteristics = append(sj.Characteristics, cj)
		}
		out.Services = append(out.Services, sj)
	}
	writeJSON(w, http.StatusOK, accessoriesJSON{Accessories: []accessoryJSON{out}})
}

func (r *HTTPRuntime) handleReadCharacteristics(w http.ResponseWriter, req *http.Request) {
	acc := r.current()
	ids := req.URL.Query().Get("id")
	if acc == nil || ids == "" {
		writeJSON(w, http.StatusBadRequest, map[string]int{"status": int(StatusInvalidValue)})
		return
	}

	var out characteristicsJSON
	failed := false
	for _, id := range strings.Split(ids, ",") {
		aid, iid, err := parseCharID(id)
		cj := charJSON{AID: aid, IID: iid}
		st := StatusSuccess
		switch {
		case err != nil || aid != acc.AID():
			st = StatusResourceAbsent
		default:
			_, c, err := acc.Lookup(iid)
			if err != nil {
				st = StatusResourceAbsent
			} else if !c.Perms().CanRead() {
				st = StatusWriteOnly
			} else {
				cj.Value = c.Value()
			}
		}
		if st != StatusSuccess {
			failed = true
		}
		s := st
		cj.Status = &s
		out.Characteristics = append(out.Characteristics, cj)
	}
	if !failed {
		for i := range out.Characteristics {
			out.Characteristics[i].Status = nil
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusMultiStatus, out)
}

func (r *HTTPRuntime) handleWriteCharacteristics(w http.ResponseWriter, req *http.Request) {
	acc := r.current()
	var in characteristicsJSON
	if acc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]int{"status": int(StatusResourceAbsent)})
		return
	}
	if err := json.NewDecoder(io.LimitReader(req.Body, 64<<10)).Decode(&in); err != nil || len(in.Characteristics) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]int{"status": int(StatusInvalidValue)})
		return
	}

	reqs := make([]WriteRequest, 0, len(in.Characteristics))
	for _, c := range in.Characteristics {
		iid := c.IID
		if c.AID != acc.AID() {
			iid = 0
		}
		reqs = append(reqs, WriteRequest{IID: iid, Value: c.Value})
	}
	statuses := acc.Write(reqs, req)

	out := characteristicsJSON{}
	failed := false
	for i, st := range statuses {
		s := st
		out.Characteristics = append(out.Characteristics, charJSON{AID: in.Characteristics[i].AID, IID: in.Characteristics[i].IID, Status: &s})
		if st != StatusSuccess {
			failed = true
		}
	}
	if !failed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusMultiStatus, out)
}

func (r *HTTPRuntime) handleIdentify(w http.ResponseWriter, _ *http.Request) {
	acc := r.current()
	if acc == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]int{"status": int(StatusResourceAbsent)})
		return
	}
	if st := acc.Identify(); st != StatusSuccess {
		writeJSON(w, http.StatusBadRequest, map[string]int{"status": int(st)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseCharID parses "aid.iid".
func parseCharID(s string) (aid, iid uint64, err error) {
	a, i, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0, 0, fmt.Errorf("malformed characteristic id %q", s)
	}
	if aid, err = strconv.ParseUint(a, 10, 64); err != nil {
		return 0, 0, err
	}
	if iid, err = strconv.ParseUint(i, 10, 64); err != nil {
		return 0, 0, err
	}
	return aid, iid, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/hap+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ Runtime = (*HTTPRuntime)(nil)
