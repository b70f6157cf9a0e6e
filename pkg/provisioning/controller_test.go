package provisioning_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
	netifmocks "github.com/dbahrdt/accessory-bringup/pkg/netif/mocks"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning/mocks"
)

const testDelay = 5 * time.Second

type fixture struct {
	ctrl    *provisioning.Controller
	router  *event.Router
	driver  *netifmocks.MockDriver
	manager *mocks.MockManager
	status  *mocks.MockStatusSource
	server  *mocks.MockServerStarter
	trace   *log.Recorder
}

func newFixture(t *testing.T, mutate func(*provisioning.Config)) *fixture {
	t.Helper()
	f := &fixture{
		router:  event.NewRouter(event.Config{}),
		driver:  netifmocks.NewMockDriver(t),
		manager: mocks.NewMockManager(t),
		status:  mocks.NewMockStatusSource(t),
		server:  mocks.NewMockServerStarter(t),
		trace:   log.NewRecorder(0),
	}
	t.Cleanup(f.router.Stop)

	cfg := provisioning.Config{
		Identity: provisioning.ServiceIdentity{
			Name:              "X",
			Security:          provisioning.SecurityAuthenticatedEncrypted,
			ProofOfPossession: "106000115",
		},
		ServerStartDelay: testDelay,
		Trace:            f.trace,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.ctrl = provisioning.NewController(cfg, provisioning.Deps{
		Driver:     f.driver,
		Dispatcher: f.router,
		Manager:    f.manager,
		Accessory:  f.status,
		Server:     f.server,
	})
	t.Cleanup(f.ctrl.Close)
	return f
}

func (f *fixture) init(t *testing.T) {
	t.Helper()
	f.driver.EXPECT().InitNetif().Return(nil).Once()
	f.driver.EXPECT().CreateDefaultStation().Return(nil).Once()
	f.driver.EXPECT().Init(mock.Anything).Return(nil).Once()
	require.NoError(t, f.ctrl.Init())
}

func (f *fixture) post(t *testing.T, source event.Source, id event.ID, data any) {
	t.Helper()
	require.NoError(t, f.router.Post(context.Background(), source, id, data))
}

func TestInitFailureIsFatal(t *testing.T) {
	f := newFixture(t, nil)
	f.driver.EXPECT().InitNetif().Return(nil).Once()
	f.driver.EXPECT().CreateDefaultStation().Return(errors.New("no memory")).Once()

	err := f.ctrl.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, provisioning.ErrNetworkInit)

	cat := log.CategoryError
	events := f.trace.Events(log.Filter{Category: &cat})
	require.Len(t, events, 1)
	assert.True(t, events[0].Error.Fatal)
}

func TestInitTwice(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)
	assert.ErrorIs(t, f.ctrl.Init(), provisioning.ErrAlreadyInitialized)
}

func TestProvisionBeforeInit(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioningFailed, f.ctrl.State())
	assert.ErrorIs(t, f.ctrl.LastError(), provisioning.ErrNotInitialized)
}

func TestProvisionUnprovisionedWaitsForEnded(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Once()
	f.manager.EXPECT().IsProvisioned().Return(false, nil).Once()
	f.status.EXPECT().IsWiFiProvisioned().Return(false).Once()
	f.driver.EXPECT().CreateDefaultAccessPoint().Return(nil).Once()
	f.manager.EXPECT().
		StartProvisioning(provisioning.SecurityAuthenticatedEncrypted, "106000115", "X", (*string)(nil)).
		Return(nil).Once()

	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioning, f.ctrl.State())

	// Intermediate events never start the server.
	f.post(t, event.SourceProvisioning, provisioning.EventStarted, nil)
	f.post(t, event.SourceProvisioning, provisioning.EventCredentialsReceived,
		provisioning.CredentialsReceived{SSID: "home", Passphrase: "pw"})
	f.post(t, event.SourceProvisioning, provisioning.EventCredentialsFailed,
		provisioning.CredentialsFailed{Reason: provisioning.FailAuthError})
	f.post(t, event.SourceProvisioning, provisioning.EventCredentialsSuccess, nil)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, f.ctrl.ServerStarts())
	assert.Equal(t, provisioning.StateProvisioning, f.ctrl.State())

	started := make(chan time.Duration, 2)
	f.manager.EXPECT().Deinit().Return().Once()
	f.server.EXPECT().StartAfter(testDelay).Run(func(d time.Duration) { started <- d }).Return().Once()
	f.post(t, event.SourceProvisioning, provisioning.EventEnded, nil)

	select {
	case d := <-started:
		assert.Equal(t, testDelay, d)
	case <-time.After(time.Second):
		t.Fatal("server start not triggered after END")
	}
	require.Eventually(t, func() bool {
		return f.ctrl.State() == provisioning.StateProvisioned
	}, time.Second, time.Millisecond)
	assert.Equal(t, uint64(1), f.ctrl.ServerStarts())
}

func TestProvisionAlreadyProvisionedStartsSynchronously(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Once()
	f.manager.EXPECT().IsProvisioned().Return(true, nil).Once()
	f.status.EXPECT().IsWiFiProvisioned().Return(true).Once()
	f.manager.EXPECT().Deinit().Return().Once()
	f.driver.EXPECT().SetMode(netif.ModeStation).Return(nil).Once()
	f.driver.EXPECT().Start().Return(nil).Once()
	f.server.EXPECT().StartAfter(testDelay).Return().Once()

	f.ctrl.Provision()

	// No provisioning event was posted; the start happened inside Provision.
	f.server.AssertCalled(t, "StartAfter", testDelay)
	assert.Equal(t, uint64(1), f.ctrl.ServerStarts())
	assert.Equal(t, provisioning.StateProvisioned, f.ctrl.State())
}

func TestConcurrentProvisionDecidesOnce(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).
		Run(func(provisioning.Scheme) {
			close(entered)
			<-release
		}).
		Return(nil).Once()
	f.manager.EXPECT().IsProvisioned().Return(true, nil).Once()
	f.status.EXPECT().IsWiFiProvisioned().Return(true).Once()
	f.manager.EXPECT().Deinit().Return().Once()
	f.driver.EXPECT().SetMode(netif.ModeStation).Return(nil).Once()
	f.driver.EXPECT().Start().Return(nil).Once()
	f.server.EXPECT().StartAfter(testDelay).Return().Once()

	first := make(chan struct{})
	go func() {
		defer close(first)
		f.ctrl.Provision()
	}()
	<-entered

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ctrl.Provision()
		}()
	}
	wg.Wait()
	close(release)
	<-first

	assert.Equal(t, uint64(1), f.ctrl.ServerStarts())
	assert.Equal(t, provisioning.StateProvisioned, f.ctrl.State())
}

func TestProvisionAuthority(t *testing.T) {
	tests := []struct {
		name        string
		authority   provisioning.Authority
		manager     bool
		accessory   bool
		provisioned bool
	}{
		{"accessory decides yes", provisioning.AuthorityAccessory, false, true, true},
		{"accessory decides no", provisioning.AuthorityAccessory, true, false, false},
		{"manager decides yes", provisioning.AuthorityManager, true, false, true},
		{"manager decides no", provisioning.AuthorityManager, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(c *provisioning.Config) { c.Authority = tt.authority })
			f.init(t)

			f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Once()
			f.manager.EXPECT().IsProvisioned().Return(tt.manager, nil).Once()
			f.status.EXPECT().IsWiFiProvisioned().Return(tt.accessory).Once()
			if tt.provisioned {
				f.manager.EXPECT().Deinit().Return().Once()
				f.driver.EXPECT().SetMode(netif.ModeStation).Return(nil).Once()
				f.driver.EXPECT().Start().Return(nil).Once()
				f.server.EXPECT().StartAfter(testDelay).Return().Once()
			} else {
				f.driver.EXPECT().CreateDefaultAccessPoint().Return(nil).Once()
				f.manager.EXPECT().StartProvisioning(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
			}
			f.ctrl.Provision()
		})
	}
}

func TestProvisionFailuresAreRecoverable(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Twice()
	f.manager.EXPECT().IsProvisioned().Return(false, nil).Twice()
	f.status.EXPECT().IsWiFiProvisioned().Return(false).Twice()
	f.driver.EXPECT().CreateDefaultAccessPoint().Return(nil).Once()
	f.manager.EXPECT().StartProvisioning(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("httpd busy")).Once()
	f.manager.EXPECT().Deinit().Return().Once()

	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioningFailed, f.ctrl.State())
	require.Error(t, f.ctrl.LastError())

	// Retry; the access point interface is not created twice.
	f.manager.EXPECT().StartProvisioning(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioning, f.ctrl.State())
}

func TestProvisionManagerInitFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)
	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(provisioning.ErrInvalidState).Once()

	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioningFailed, f.ctrl.State())
	assert.ErrorIs(t, f.ctrl.LastError(), provisioning.ErrInvalidState)
}

func TestProvisionStationStartFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)
	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Once()
	f.manager.EXPECT().IsProvisioned().Return(true, nil).Once()
	f.status.EXPECT().IsWiFiProvisioned().Return(true).Once()
	f.manager.EXPECT().Deinit().Return().Once()
	f.driver.EXPECT().SetMode(netif.ModeStation).Return(nil).Once()
	f.driver.EXPECT().Start().Return(errors.New("radio off")).Once()

	f.ctrl.Provision()
	assert.Equal(t, provisioning.StateProvisioningFailed, f.ctrl.State())
	assert.Zero(t, f.ctrl.ServerStarts())
}

func TestDisconnectReconnectsOncePerEvent(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	const n = 5
	f.driver.EXPECT().Connect().Return(nil).Times(n)
	for i := 0; i < n; i++ {
		f.post(t, event.SourceWiFi, netif.EventStationDisconnected,
			netif.StationDisconnected{SSID: "home", Reason: netif.ReasonBeaconTimeout})
	}
	require.Eventually(t, func() bool { return f.ctrl.Reconnects() == n }, time.Second, time.Millisecond)
	// Give a stray extra attempt the chance to show up.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, uint64(n), f.ctrl.Reconnects())
}

func TestDisconnectWithBackoff(t *testing.T) {
	f := newFixture(t, func(c *provisioning.Config) {
		c.Reconnect = provisioning.ReconnectPolicy{
			Backoff:         true,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
		}
	})
	f.init(t)

	connected := make(chan struct{}, 2)
	f.driver.EXPECT().Connect().Run(func() { connected <- struct{}{} }).Return(nil).Twice()
	f.post(t, event.SourceWiFi, netif.EventStationDisconnected, netif.StationDisconnected{})
	f.post(t, event.SourceWiFi, netif.EventStationDisconnected, netif.StationDisconnected{})

	for i := 0; i < 2; i++ {
		select {
		case <-connected:
		case <-time.After(time.Second):
			t.Fatalf("reconnect %d not issued", i+1)
		}
	}
}

func TestStationStartRequestsConnect(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)

	done := make(chan struct{})
	f.driver.EXPECT().Connect().Run(func() { close(done) }).Return(netif.ErrNotConfigured).Once()
	f.post(t, event.SourceWiFi, netif.EventStationStart, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("STA_START did not request a connection")
	}
}

func TestGateSignalledOnlyByAddress(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		f := newFixture(t, nil)
		f.init(t)
		f.driver.EXPECT().Connect().Return(nil).Maybe()

		rng := rand.New(rand.NewSource(seed))
		sawIP := false
		for i := 0; i < 10; i++ {
			switch rng.Intn(4) {
			case 0:
				f.post(t, event.SourceWiFi, netif.EventStationStart, nil)
			case 1:
				f.post(t, event.SourceWiFi, netif.EventStationDisconnected, netif.StationDisconnected{})
			case 2:
				f.post(t, event.SourceWiFi, netif.EventStationConnected, netif.StationConnected{})
			case 3:
				if rng.Intn(3) == 0 {
					sawIP = true
					f.post(t, event.SourceIP, netif.EventStationGotIP, netif.IPAcquired{})
				}
			}
		}
		f.router.Stop()

		assert.Equal(t, sawIP, f.ctrl.Gate().IsSet(), "seed %d", seed)
	}
}

func TestGateTakenBeforeInitIsSignalled(t *testing.T) {
	f := newFixture(t, nil)
	g := f.ctrl.Gate()
	f.init(t)
	f.driver.EXPECT().Connect().Return(nil).Maybe()
	assert.Same(t, g, f.ctrl.Gate())

	f.post(t, event.SourceIP, netif.EventStationGotIP, netif.IPAcquired{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, g.Wait(ctx))
}

func TestGateStaysSetUntilCleared(t *testing.T) {
	f := newFixture(t, nil)
	f.init(t)
	f.driver.EXPECT().Connect().Return(nil).Maybe()

	f.post(t, event.SourceIP, netif.EventStationGotIP, netif.IPAcquired{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.ctrl.WaitConnected(ctx))

	f.post(t, event.SourceWiFi, netif.EventStationDisconnected, netif.StationDisconnected{})
	time.Sleep(10 * time.Millisecond)
	assert.True(t, f.ctrl.Gate().IsSet(), "disconnect must not clear the gate")

	f.ctrl.Gate().Clear()
	assert.False(t, f.ctrl.Gate().IsSet())
}

func TestProvisionRejectsInvalidIdentity(t *testing.T) {
	f := newFixture(t, func(c *provisioning.Config) { c.Identity.Name = "" })
	f.init(t)
	f.manager.EXPECT().Init(provisioning.SchemeSoftAP).Return(nil).Once()
	f.manager.EXPECT().IsProvisioned().Return(false, nil).Once()
	f.status.EXPECT().IsWiFiProvisioned().Return(false).Once()
	f.manager.EXPECT().Deinit().Return().Once()

	f.ctrl.Provision()
	assert.ErrorIs(t, f.ctrl.LastError(), provisioning.ErrInvalidIdentity)
}
