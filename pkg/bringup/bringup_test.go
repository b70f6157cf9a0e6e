package bringup_test

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/accessory"
	"github.com/dbahrdt/accessory-bringup/pkg/bringup"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
	"github.com/dbahrdt/accessory-bringup/pkg/status"
	statusmocks "github.com/dbahrdt/accessory-bringup/pkg/status/mocks"
	"github.com/dbahrdt/accessory-bringup/pkg/webserver"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Accessory.ListenAddr = "127.0.0.1:0"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.SecurePort = -1
	cfg.Server.InsecurePort = -1
	cfg.Server.StartDelay = 20 * time.Millisecond
	cfg.Server.CertFile = filepath.Join(dir, "server.crt")
	cfg.Server.KeyFile = filepath.Join(dir, "server.key")
	cfg.Discovery.Enabled = false
	cfg.WiFi.StatePath = filepath.Join(dir, "station.json")
	cfg.WiFi.ConnectDelay = 10 * time.Millisecond
	cfg.Provisioning.EndDelay = 10 * time.Millisecond
	cfg.Bringup.LivenessInterval = 20 * time.Millisecond
	require.NoError(t, cfg.Validate())
	return cfg
}

func storeCredentials(t *testing.T, cfg *config.Config) {
	t.Helper()
	require.NoError(t, persistence.NewFileStore(cfg.WiFi.StatePath).Save(&persistence.StationState{
		SSID:       "home",
		Passphrase: "secret123",
	}))
}

type running struct {
	bc     *bringup.Context
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, cfg *config.Config, opts bringup.Options) *running {
	t.Helper()
	bc, err := bringup.Build(cfg, opts)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{bc: bc, cancel: cancel, done: make(chan error, 1)}
	go func() { r.done <- bc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = bc.Close()
	})
	return r
}

func (r *running) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("bring-up did not return")
		return nil
	}
}

func (r *running) waitServer(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.bc.Server.State() == webserver.StateRunning
	}, 5*time.Second, 5*time.Millisecond)
}

func phases(rec *log.Recorder) []string {
	var out []string
	for _, e := range rec.Events(log.Filter{}) {
		if e.StateChange != nil && e.StateChange.Entity == log.StateEntityBringup {
			out = append(out, e.StateChange.NewState)
		}
	}
	return out
}

func getTest(t *testing.T, addr string) string {
	t.Helper()
	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
	}
	resp, err := client.Get("https://" + addr + "/test")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestBringupProvisionedDevice(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)

	r := start(t, cfg, bringup.Options{})
	r.waitServer(t)

	assert.Equal(t, "ok", getTest(t, r.bc.Server.SecureAddr().String()))
	require.Eventually(t, func() bool {
		return r.bc.Controller.State() == provisioning.StateStationConnected
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, r.bc.Controller.Gate().IsSet())
	assert.Equal(t, uint64(1), r.bc.Controller.ServerStarts())
	assert.True(t, r.bc.CertCreated)

	// No provisioning session was opened.
	assert.False(t, r.bc.Manager.Running())
	for _, e := range r.bc.Recorder.Events(log.Filter{}) {
		if e.Dispatch != nil && e.Dispatch.Source == string(event.SourceProvisioning) {
			assert.NotEqual(t, int32(provisioning.EventStarted), e.Dispatch.ID)
		}
	}

	r.cancel()
	require.NoError(t, r.wait(t))
	assert.Equal(t, []string{
		bringup.PhaseInitAccessory,
		bringup.PhaseInitNetwork,
		bringup.PhaseStartAccessory,
		bringup.PhaseProvision,
		bringup.PhaseRunning,
		bringup.PhaseStopped,
	}, phases(r.bc.Recorder))

	require.NoError(t, r.bc.Close())
	require.NoError(t, r.bc.Close())
	assert.Equal(t, webserver.StateStopped, r.bc.Server.State())
}

func TestBringupUnprovisionedDevice(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provisioning.Security = "open"

	r := start(t, cfg, bringup.Options{})
	require.Eventually(t, func() bool {
		return r.bc.Manager.Running() && r.bc.Runtime.Addr() != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, provisioning.StateProvisioning, r.bc.Controller.State())
	assert.Equal(t, webserver.StateStopped, r.bc.Server.State())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := provisioning.NewClientSession("http://"+r.bc.Runtime.Addr().String(), provisioning.SecurityOpen, "", nil)
	require.NoError(t, client.Establish(ctx))
	require.NoError(t, client.SetConfig(ctx, "home", "secret123"))
	require.NoError(t, client.ApplyConfig(ctx))

	r.waitServer(t)
	require.NoError(t, r.bc.Controller.WaitConnected(ctx))
	assert.Equal(t, uint64(1), r.bc.Controller.ServerStarts())
	assert.Equal(t, "ok", getTest(t, r.bc.Server.SecureAddr().String()))
	assert.True(t, r.bc.Accessory.IsWiFiProvisioned())

	saved, err := persistence.NewFileStore(cfg.WiFi.StatePath).Load()
	require.NoError(t, err)
	assert.Equal(t, "home", saved.SSID)

	r.cancel()
	require.NoError(t, r.wait(t))
}

func TestBringupCorruptCertificateIsFatal(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)
	require.NoError(t, os.WriteFile(cfg.Server.CertFile, []byte("not a certificate"), 0600))
	require.NoError(t, os.WriteFile(cfg.Server.KeyFile, []byte("not a key"), 0600))

	r := start(t, cfg, bringup.Options{})
	err := r.wait(t)

	var fatal *bringup.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, bringup.ComponentServer, fatal.Component)
	assert.ErrorIs(t, err, webserver.ErrServerStart)
	assert.False(t, r.bc.CertCreated)

	got := phases(r.bc.Recorder)
	require.NotEmpty(t, got)
	assert.Equal(t, bringup.PhaseFailed, got[len(got)-1])
}

func TestBringupEmptyCertificateIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.SelfSigned = false
	storeCredentials(t, cfg)
	require.NoError(t, os.WriteFile(cfg.Server.CertFile, nil, 0600))
	require.NoError(t, os.WriteFile(cfg.Server.KeyFile, nil, 0600))

	r := start(t, cfg, bringup.Options{})
	err := r.wait(t)
	assert.ErrorIs(t, err, webserver.ErrServerStart)
}

func TestBringupAccessoryInitFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Device.MFiAuth = true

	r := start(t, cfg, bringup.Options{})
	err := r.wait(t)

	var fatal *bringup.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, bringup.ComponentAccessory, fatal.Component)
	assert.ErrorIs(t, err, accessory.ErrInit)
	assert.ErrorIs(t, err, accessory.ErrHardwareAuthUnavailable)
	assert.Equal(t, []string{bringup.PhaseInitAccessory, bringup.PhaseFailed}, phases(r.bc.Recorder))
}

func TestBringupRunTwice(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)

	r := start(t, cfg, bringup.Options{})
	require.Eventually(t, r.bc.Running, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.bc.Run(context.Background()), bringup.ErrAlreadyRunning)
}

func TestBringupAdvertisesAccessory(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)
	adv := &recordingAdvertiser{}

	r := start(t, cfg, bringup.Options{Advertiser: adv})
	r.waitServer(t)
	require.Eventually(t, func() bool { return adv.updates() > 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "mwe test", adv.accessory().Name)
	assert.Equal(t, r.bc.Runtime.Port(), adv.accessory().Port)
}

func TestBringupPublishesStatus(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)
	cfg.MQTT.Enabled = true

	topic := status.Topic(cfg.MQTT.TopicPrefix, discovery.DeviceIDFromSerial(cfg.Device.Serial))
	tr := statusmocks.NewMockTransport(t)
	var (
		mu   sync.Mutex
		docs []status.Status
	)
	tr.EXPECT().Publish(topic, mock.Anything, byte(1), true).
		Run(func(_ string, payload []byte, _ byte, _ bool) {
			var st status.Status
			if json.Unmarshal(payload, &st) == nil {
				mu.Lock()
				docs = append(docs, st)
				mu.Unlock()
			}
		}).
		Return(nil)
	tr.EXPECT().Close().Return(nil).Once()

	r := start(t, cfg, bringup.Options{StatusTransport: tr})
	r.waitServer(t)
	require.NotNil(t, r.bc.Status)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, d := range docs {
			if d.Entity == "SERVER" && d.State == webserver.StateRunning.String() {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	r.cancel()
	require.NoError(t, r.wait(t))
	require.NoError(t, r.bc.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, status.StateOnline, docs[0].State)
	assert.Equal(t, status.StateOffline, docs[len(docs)-1].State)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown category", func(c *config.Config) { c.Device.Category = "toaster" }},
		{"missing certificate", func(c *config.Config) { c.Server.SelfSigned = false }},
		{"unknown authority", func(c *config.Config) { c.Provisioning.Authority = "both" }},
		{"trace file in missing directory", func(c *config.Config) { c.Logging.TraceFile = "/nonexistent/dir/run.btrace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := bringup.Build(cfg, bringup.Options{})
			assert.Error(t, err)
		})
	}
}

func TestBuildWritesTraceFile(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)
	cfg.Logging.TraceFile = filepath.Join(t.TempDir(), "run.btrace")

	r := start(t, cfg, bringup.Options{})
	r.waitServer(t)
	r.cancel()
	require.NoError(t, r.wait(t))
	require.NoError(t, r.bc.Close())

	reader, err := log.NewReader(cfg.Logging.TraceFile)
	require.NoError(t, err)
	defer reader.Close()
	n := 0
	for {
		_, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Positive(t, n)
}

func TestBringupStampsTraceEvents(t *testing.T) {
	cfg := testConfig(t)
	storeCredentials(t, cfg)

	r := start(t, cfg, bringup.Options{})
	r.waitServer(t)
	require.NotEmpty(t, r.bc.TraceID)

	events := r.bc.Recorder.Events(log.Filter{})
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, r.bc.TraceID, e.TraceID)
		assert.Equal(t, discovery.DeviceIDFromSerial(cfg.Device.Serial), e.DeviceID)
	}
}
