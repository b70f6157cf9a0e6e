package interactive

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/bringup"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Accessory.ListenAddr = "127.0.0.1:0"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.SecurePort = -1
	cfg.Server.InsecurePort = -1
	cfg.Server.StartDelay = time.Hour
	cfg.Server.CertFile = filepath.Join(dir, "server.crt")
	cfg.Server.KeyFile = filepath.Join(dir, "server.key")
	cfg.Discovery.Enabled = false
	cfg.WiFi.StatePath = filepath.Join(dir, "station.json")
	cfg.WiFi.ConnectDelay = 10 * time.Millisecond
	cfg.Provisioning.EndDelay = 10 * time.Millisecond
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestConsole(t *testing.T, cfg *config.Config) (*Console, *bytes.Buffer) {
	t.Helper()
	bc, err := bringup.Build(cfg, bringup.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bc.Close() })

	var buf bytes.Buffer
	return &Console{out: &buf, bc: bc}, &buf
}

// runBringup starts the bring-up for a device with stored credentials and
// waits until the station is connected.
func runBringup(t *testing.T, c *Console) {
	t.Helper()
	require.NoError(t, persistence.NewFileStore(c.bc.Config.WiFi.StatePath).Save(&persistence.StationState{
		SSID:       "home",
		Passphrase: "secret123",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.bc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		return c.bc.Running() && c.bc.Controller.Gate().IsSet()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConsoleHelpAndUnknown(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))
	ctx := context.Background()

	assert.True(t, c.Execute(ctx, "help"))
	assert.Contains(t, out.String(), "Accessory Commands:")

	out.Reset()
	assert.True(t, c.Execute(ctx, "frobnicate now"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	assert.True(t, c.Execute(ctx, "   "))
	assert.False(t, c.Execute(ctx, "quit"))
	assert.False(t, c.Execute(ctx, "EXIT"))
}

func TestConsoleStatusBeforeRun(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))

	c.Execute(context.Background(), "status")
	output := out.String()

	assert.Contains(t, output, "Trace:         "+c.bc.TraceID)
	assert.Contains(t, output, "Provisioning:  ")
	assert.Contains(t, output, "Gate:          cleared")
	assert.Contains(t, output, "Server:        STOPPED pending=false starts=0")
	assert.Contains(t, output, "Accessory:     stopped")
	assert.NotContains(t, output, "Status:")
}

func TestConsoleServerCommands(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))
	ctx := context.Background()

	c.Execute(ctx, "server delay 1h")
	assert.Contains(t, out.String(), "Server start scheduled in 1h0m0s")
	assert.True(t, c.bc.Server.Pending())

	out.Reset()
	c.Execute(ctx, "server cancel")
	assert.Contains(t, out.String(), "Pending start cancelled")
	assert.False(t, c.bc.Server.Pending())

	out.Reset()
	c.Execute(ctx, "server cancel")
	assert.Contains(t, out.String(), "No pending start")

	out.Reset()
	c.Execute(ctx, "server start")
	assert.Contains(t, out.String(), "Server:        RUNNING")
	assert.Contains(t, out.String(), "https=127.0.0.1:")
	assert.True(t, c.bc.Server.Ready())

	out.Reset()
	c.Execute(ctx, "server stop")
	assert.Contains(t, out.String(), "Server stopped")
	assert.False(t, c.bc.Server.Ready())

	out.Reset()
	c.Execute(ctx, "server delay")
	assert.Contains(t, out.String(), "Usage: server delay <duration>")

	out.Reset()
	c.Execute(ctx, "server delay soon")
	assert.Contains(t, out.String(), "Invalid duration: soon")

	out.Reset()
	c.Execute(ctx, "server reboot")
	assert.Contains(t, out.String(), "Unknown server command: reboot")
}

func TestConsoleDisconnectBeforeStart(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))

	c.Execute(context.Background(), "disconnect")
	assert.Contains(t, out.String(), "Disconnect failed")

	out.Reset()
	c.Execute(context.Background(), "disconnect loud")
	assert.Contains(t, out.String(), "Invalid reason code: loud")
}

func TestConsoleTrace(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))
	ctx := context.Background()

	c.Execute(ctx, "trace")
	assert.Contains(t, out.String(), "No trace events")

	out.Reset()
	c.Execute(ctx, "trace -3")
	assert.Contains(t, out.String(), "Invalid count: -3")

	c.bc.Trace.Log(log.NewStateEvent(log.ComponentServer, log.StateEntityServer, "STOPPED", "RUNNING", "manual"))
	c.bc.Trace.Log(log.NewErrorEvent(log.ComponentServer, "start", assert.AnError, true))

	out.Reset()
	c.Execute(ctx, "trace 1")
	output := out.String()
	assert.Contains(t, output, "ERROR start: "+assert.AnError.Error()+" [fatal]")
	assert.NotContains(t, output, "STOPPED -> RUNNING")

	out.Reset()
	c.Execute(ctx, "trace")
	assert.Contains(t, out.String(), "SERVER STOPPED -> RUNNING (manual)")
}

func TestConsoleWithRunningBringup(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))
	ctx := context.Background()
	runBringup(t, c)

	c.Execute(ctx, "gate")
	assert.Contains(t, out.String(), "Gate: set")

	out.Reset()
	c.Execute(ctx, "status")
	output := out.String()
	assert.Contains(t, output, "connected=true ssid=home")
	assert.Contains(t, output, "Accessory:     127.0.0.1:")
	assert.Contains(t, output, "Server:        STOPPED pending=true")

	out.Reset()
	c.Execute(ctx, "trace 100")
	assert.Contains(t, out.String(), "BRINGUP IDLE -> INIT_ACCESSORY")
	assert.Contains(t, out.String(), "WIFI_EVENT/")

	out.Reset()
	c.Execute(ctx, "disconnect 200")
	assert.Contains(t, out.String(), "Station disconnected (BEACON_TIMEOUT)")

	// The controller reconnects on disconnect events.
	require.Eventually(t, func() bool {
		return c.bc.Controller.Reconnects() > 0
	}, 5*time.Second, 10*time.Millisecond)

	out.Reset()
	c.Execute(ctx, "gate wait 5s")
	assert.Contains(t, out.String(), "Gate: set")

	out.Reset()
	c.Execute(ctx, "forget")
	assert.Contains(t, out.String(), "Station credentials erased")
	_, err := c.bc.Driver.StationConfig()
	assert.Error(t, err)
}

func TestConsoleGateUsage(t *testing.T) {
	c, out := newTestConsole(t, testConfig(t))

	c.Execute(context.Background(), "gate open")
	assert.Contains(t, out.String(), "Usage: gate [wait <duration>]")

	out.Reset()
	c.Execute(context.Background(), "gate wait 10ms")
	assert.Contains(t, out.String(), "Gate: still cleared after 10ms")
}
