package provisioning_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning/mocks"
)

const testPoP = "106000115"

// swapMounter serves whatever handler is currently mounted.
type swapMounter struct {
	mu      sync.Mutex
	handler http.Handler
	mounts  int
}

func (s *swapMounter) MountProvisioning(h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
	s.mounts++
}

func (s *swapMounter) UnmountProvisioning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
}

func (s *swapMounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func (s *swapMounter) mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

type flow struct {
	router  *event.Router
	ctrl    *provisioning.Controller
	manager *provisioning.SoftAPManager
	sim     *netif.Simulator
	store   *persistence.MemoryStore
	mounter *swapMounter
	http    *httptest.Server
	started chan time.Duration
}

func newFlow(t *testing.T, security provisioning.SecurityTier, pop string) *flow {
	t.Helper()

	router := event.NewRouter(event.Config{Names: netif.EventNames()})
	t.Cleanup(router.Stop)

	f := &flow{
		router:  router,
		store:   persistence.NewMemoryStore(nil),
		mounter: &swapMounter{},
		started: make(chan time.Duration, 4),
	}
	f.sim = netif.NewSimulator(netif.SimulatorConfig{
		Poster:       router,
		Store:        f.store,
		Networks:     []netif.Network{{SSID: "home", Passphrase: "secret123"}},
		ConnectDelay: 20 * time.Millisecond,
	})
	f.manager = provisioning.NewSoftAPManager(provisioning.SoftAPConfig{
		Driver:   f.sim,
		Poster:   router,
		Events:   router,
		Mounter:  f.mounter,
		EndDelay: 10 * time.Millisecond,
	})
	f.http = httptest.NewServer(f.mounter)
	t.Cleanup(f.http.Close)

	status := mocks.NewMockStatusSource(t)
	status.EXPECT().IsWiFiProvisioned().Return(false).Maybe()
	server := mocks.NewMockServerStarter(t)
	server.EXPECT().StartAfter(time.Second).Run(func(d time.Duration) { f.started <- d }).Return().Maybe()

	f.ctrl = provisioning.NewController(provisioning.Config{
		Identity: provisioning.ServiceIdentity{
			Name:              "PROV_ACC",
			Security:          security,
			ProofOfPossession: pop,
		},
		ServerStartDelay: time.Second,
	}, provisioning.Deps{
		Driver:     f.sim,
		Dispatcher: router,
		Manager:    f.manager,
		Accessory:  status,
		Server:     server,
	})
	t.Cleanup(f.ctrl.Close)

	require.NoError(t, f.ctrl.Init())
	f.ctrl.Provision()
	require.Equal(t, provisioning.StateProvisioning, f.ctrl.State())
	require.True(t, f.manager.Running())
	require.True(t, f.mounter.mounted())
	return f
}

func (f *flow) client(security provisioning.SecurityTier, pop string) *provisioning.ClientSession {
	return provisioning.NewClientSession(f.http.URL, security, pop, f.http.Client())
}

func (f *flow) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case d := <-f.started:
		assert.Equal(t, time.Second, d)
	case <-time.After(2 * time.Second):
		t.Fatal("secure server start was not triggered")
	}
}

func TestSoftAPProvisioningFlow(t *testing.T) {
	tests := []struct {
		name     string
		security provisioning.SecurityTier
		pop      string
	}{
		{"open", provisioning.SecurityOpen, ""},
		{"authenticated encrypted", provisioning.SecurityAuthenticatedEncrypted, testPoP},
		{"encrypted without pop", provisioning.SecurityAuthenticatedEncrypted, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlow(t, tt.security, tt.pop)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			c := f.client(tt.security, tt.pop)
			info, err := c.ProtoVersion(ctx)
			require.NoError(t, err)
			assert.Equal(t, provisioning.ProtocolVersion, info.Prov.Version)
			assert.Equal(t, tt.security, info.Prov.SecVer)

			require.NoError(t, c.Establish(ctx))
			require.NoError(t, c.SetConfig(ctx, "home", "secret123"))
			require.NoError(t, c.ApplyConfig(ctx))

			f.waitStarted(t)
			require.NoError(t, f.ctrl.WaitConnected(ctx))
			require.Eventually(t, func() bool {
				return f.ctrl.State() == provisioning.StateStationConnected
			}, time.Second, time.Millisecond)

			assert.False(t, f.manager.Running())
			assert.False(t, f.mounter.mounted())
			assert.Equal(t, netif.ModeStation, f.sim.Mode())
			assert.Equal(t, uint64(1), f.ctrl.ServerStarts())

			saved, err := f.store.Load()
			require.NoError(t, err)
			assert.Equal(t, "home", saved.SSID)
			assert.Equal(t, "secret123", saved.Passphrase)
		})
	}
}

func TestSoftAPEventOrder(t *testing.T) {
	f := newFlow(t, provisioning.SecurityOpen, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu   sync.Mutex
		seen []event.ID
	)
	_, err := f.router.Register(event.SourceProvisioning, event.AnyID, func(ev event.Event) {
		switch ev.ID {
		case provisioning.EventStarted, provisioning.EventDeinit:
			return
		}
		mu.Lock()
		seen = append(seen, ev.ID)
		mu.Unlock()
	})
	require.NoError(t, err)

	c := f.client(provisioning.SecurityOpen, "")
	require.NoError(t, c.Establish(ctx))
	require.NoError(t, c.SetConfig(ctx, "home", "secret123"))
	require.NoError(t, c.ApplyConfig(ctx))
	require.NoError(t, f.ctrl.WaitConnected(ctx))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == provisioning.EventEnded
	}, 2*time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.ID{
		provisioning.EventCredentialsReceived,
		provisioning.EventCredentialsSuccess,
		provisioning.EventEnded,
	}, seen)
}

func TestSoftAPWrongProofOfPossession(t *testing.T) {
	f := newFlow(t, provisioning.SecurityAuthenticatedEncrypted, testPoP)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := f.client(provisioning.SecurityAuthenticatedEncrypted, "000000000")
	err := c.Establish(ctx)
	assert.ErrorIs(t, err, provisioning.ErrProofOfPossession)

	// Without a session no command gets through.
	_, err = c.Status(ctx)
	assert.ErrorIs(t, err, provisioning.ErrSession)

	// A correct client can still open a session afterwards.
	good := f.client(provisioning.SecurityAuthenticatedEncrypted, testPoP)
	require.NoError(t, good.Establish(ctx))
	resp, err := good.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, provisioning.StationStateIdle, resp.StaState)
	assert.Zero(t, f.ctrl.ServerStarts())
}

func TestSoftAPCredentialsFailureThenSuccess(t *testing.T) {
	f := newFlow(t, provisioning.SecurityAuthenticatedEncrypted, testPoP)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := f.client(provisioning.SecurityAuthenticatedEncrypted, testPoP)
	require.NoError(t, c.Establish(ctx))
	require.NoError(t, c.SetConfig(ctx, "home", "wrong-pass"))
	require.NoError(t, c.ApplyConfig(ctx))

	require.Eventually(t, func() bool {
		resp, err := c.Status(ctx)
		return err == nil && resp.StaState == provisioning.StationStateDisconnected
	}, 2*time.Second, 5*time.Millisecond)
	resp, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, provisioning.FailAuthError.String(), resp.FailReason)
	assert.True(t, f.manager.Running(), "session stays open after a failure")
	assert.Zero(t, f.ctrl.ServerStarts())
	assert.False(t, f.ctrl.Gate().IsSet())

	require.NoError(t, c.SetConfig(ctx, "home", "secret123"))
	require.NoError(t, c.ApplyConfig(ctx))
	f.waitStarted(t)
	assert.True(t, f.ctrl.Gate().IsSet())
}

func TestSoftAPUnknownNetwork(t *testing.T) {
	f := newFlow(t, provisioning.SecurityOpen, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := f.client(provisioning.SecurityOpen, "")
	require.NoError(t, c.Establish(ctx))
	require.NoError(t, c.SetConfig(ctx, "elsewhere", "secret123"))
	require.NoError(t, c.ApplyConfig(ctx))

	require.Eventually(t, func() bool {
		resp, err := c.Status(ctx)
		return err == nil && resp.FailReason == provisioning.FailAccessPointNotFound.String()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSoftAPCommandValidation(t *testing.T) {
	f := newFlow(t, provisioning.SecurityOpen, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := f.client(provisioning.SecurityOpen, "")
	require.NoError(t, c.Establish(ctx))

	// apply before set
	resp, err := c.Command(ctx, provisioning.ConfigRequest{Cmd: provisioning.CmdApplyConfig})
	require.NoError(t, err)
	assert.Equal(t, provisioning.StatusInvalidState, resp.Status)

	resp, err = c.Command(ctx, provisioning.ConfigRequest{Cmd: provisioning.CmdSetConfig})
	require.NoError(t, err)
	assert.Equal(t, provisioning.StatusInvalidArg, resp.Status)

	resp, err = c.Command(ctx, provisioning.ConfigRequest{Cmd: "reboot"})
	require.NoError(t, err)
	assert.Equal(t, provisioning.StatusInvalidArg, resp.Status)
}

func TestSoftAPManagerLifecycle(t *testing.T) {
	m := provisioning.NewSoftAPManager(provisioning.SoftAPConfig{Driver: netif.NewSimulator(netif.SimulatorConfig{})})

	_, err := m.IsProvisioned()
	assert.ErrorIs(t, err, provisioning.ErrInvalidState)
	assert.ErrorIs(t, m.Init("ble"), provisioning.ErrUnsupportedScheme)

	require.NoError(t, m.Init(provisioning.SchemeSoftAP))
	assert.ErrorIs(t, m.Init(provisioning.SchemeSoftAP), provisioning.ErrInvalidState)

	ok, err := m.IsProvisioned()
	require.NoError(t, err)
	assert.False(t, ok)

	m.Deinit()
	m.Deinit()
	require.NoError(t, m.Init(provisioning.SchemeSoftAP))
}
