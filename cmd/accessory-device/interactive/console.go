// Package interactive provides the interactive console for accessory-device.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/dbahrdt/accessory-bringup/pkg/bringup"
	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
)

const (
	defaultTraceLines      = 20
	defaultDiscoverTimeout = 3 * time.Second
	defaultGateWait        = 5 * time.Second
)

// Console handles interactive mode for accessory-device.
type Console struct {
	rl  *readline.Instance
	out io.Writer
	bc  *bringup.Context
}

// New creates a console reading from the terminal.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "accessory> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx is done. cancel is called when
// the user leaves the console.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc, bc *bringup.Context) {
	defer c.rl.Close()
	c.bc = bc

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if !c.Execute(ctx, line) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the user asked to
// quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "status", "s":
		c.cmdStatus()
	case "gate", "g":
		c.cmdGate(args)
	case "server":
		c.cmdServer(args)
	case "provision", "prov":
		c.cmdProvision()
	case "disconnect":
		c.cmdDisconnect(args)
	case "forget":
		c.cmdForget()
	case "trace", "t":
		c.cmdTrace(args)
	case "discover":
		c.cmdDiscover(ctx, args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Accessory Commands:
  Bring-up:
    status                 - Show component status
    gate [wait <dur>]      - Show or wait for the connectivity gate
    provision              - Run provisioning again (after a failure)

  Server:
    server                 - Show server status
    server start|restart   - Start the secure server now
    server stop            - Stop the server and cancel a pending start
    server delay <dur>     - Schedule a start after <dur>
    server cancel          - Cancel a pending start

  Network:
    disconnect [reason]    - Simulate a station disconnect (driver reason code)
    forget                 - Erase stored station credentials

  Diagnostics:
    trace [n]              - Show the last n trace events
    discover [type] [dur]  - Browse mDNS (accessory, provisioning or a service type)

  Other:
    help                   - Show this help
    quit                   - Exit`)
}

func (c *Console) cmdStatus() {
	bc := c.bc
	fmt.Fprintf(c.out, "Trace:         %s\n", bc.TraceID)

	prov := bc.Controller.State().String()
	if err := bc.Controller.LastError(); err != nil {
		prov += fmt.Sprintf(" (last error: %v)", err)
	}
	fmt.Fprintf(c.out, "Provisioning:  %s\n", prov)
	fmt.Fprintf(c.out, "Reconnects:    %d\n", bc.Controller.Reconnects())

	st := bc.Driver.Status()
	fmt.Fprintf(c.out, "Station:       mode=%s started=%t connected=%t", st.Mode, st.Started, st.Connected)
	if st.SSID != "" {
		fmt.Fprintf(c.out, " ssid=%s", st.SSID)
	}
	if st.Address.IsValid() {
		fmt.Fprintf(c.out, " addr=%s", st.Address)
	}
	fmt.Fprintf(c.out, " attempts=%d disconnects=%d\n", st.ConnectAttempts, st.Disconnects)

	fmt.Fprintf(c.out, "Gate:          %s\n", gateState(bc.Controller.Gate().IsSet()))
	c.printServer()

	if addr := bc.Runtime.Addr(); addr != nil {
		fmt.Fprintf(c.out, "Accessory:     %s identifies=%d writes=%d\n", addr, bc.Accessory.Identifies(), bc.Accessory.Writes())
	} else {
		fmt.Fprintln(c.out, "Accessory:     stopped")
	}

	delivered, panics := bc.Router.Stats()
	fmt.Fprintf(c.out, "Router:        delivered=%d panics=%d\n", delivered, panics)

	if bc.Status != nil {
		fmt.Fprintf(c.out, "Status:        %s published=%d dropped=%d failed=%d\n",
			bc.Status.Last().State, bc.Status.Published(), bc.Status.Dropped(), bc.Status.Failed())
	}
}

func (c *Console) printServer() {
	s := c.bc.Server
	fmt.Fprintf(c.out, "Server:        %s pending=%t starts=%d", s.State(), s.Pending(), s.Starts())
	if addr := s.SecureAddr(); addr != nil {
		fmt.Fprintf(c.out, " https=%s", addr)
	}
	if addr := s.InsecureAddr(); addr != nil {
		fmt.Fprintf(c.out, " http=%s", addr)
	}
	fmt.Fprintln(c.out)
}

func gateState(set bool) string {
	if set {
		return "set"
	}
	return "cleared"
}

func (c *Console) cmdGate(args []string) {
	g := c.bc.Controller.Gate()
	if len(args) == 0 {
		fmt.Fprintf(c.out, "Gate: %s\n", gateState(g.IsSet()))
		return
	}
	if args[0] != "wait" {
		fmt.Fprintln(c.out, "Usage: gate [wait <duration>]")
		return
	}

	d := defaultGateWait
	if len(args) > 1 {
		var err error
		if d, err = time.ParseDuration(args[1]); err != nil {
			fmt.Fprintf(c.out, "Invalid duration: %s\n", args[1])
			return
		}
	}
	if g.WaitTimeout(d) {
		fmt.Fprintln(c.out, "Gate: set")
	} else {
		fmt.Fprintf(c.out, "Gate: still cleared after %s\n", d)
	}
}

func (c *Console) cmdServer(args []string) {
	s := c.bc.Server
	if len(args) == 0 {
		c.printServer()
		return
	}

	switch args[0] {
	case "start", "restart":
		if err := s.Start(); err != nil {
			fmt.Fprintf(c.out, "Start failed: %v\n", err)
			return
		}
		c.printServer()
	case "stop":
		s.Stop()
		fmt.Fprintln(c.out, "Server stopped")
	case "delay":
		if len(args) < 2 {
			fmt.Fprintln(c.out, "Usage: server delay <duration>")
			return
		}
		d, err := time.ParseDuration(args[1])
		if err != nil || d < 0 {
			fmt.Fprintf(c.out, "Invalid duration: %s\n", args[1])
			return
		}
		s.StartAfter(d)
		fmt.Fprintf(c.out, "Server start scheduled in %s\n", d)
	case "cancel":
		if s.CancelPending() {
			fmt.Fprintln(c.out, "Pending start cancelled")
		} else {
			fmt.Fprintln(c.out, "No pending start")
		}
	default:
		fmt.Fprintf(c.out, "Unknown server command: %s\n", args[0])
	}
}

func (c *Console) cmdProvision() {
	ctl := c.bc.Controller
	ctl.Provision()
	if err := ctl.LastError(); err != nil {
		fmt.Fprintf(c.out, "Provisioning: %s (%v)\n", ctl.State(), err)
		return
	}
	fmt.Fprintf(c.out, "Provisioning: %s\n", ctl.State())
}

func (c *Console) cmdDisconnect(args []string) {
	reason := netif.ReasonBeaconTimeout
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid reason code: %s\n", args[0])
			return
		}
		reason = netif.DisconnectReason(n)
	}
	if err := c.bc.Driver.SimulateDisconnect(reason); err != nil {
		fmt.Fprintf(c.out, "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Station disconnected (%s)\n", reason)
}

func (c *Console) cmdForget() {
	if err := c.bc.Driver.ForgetStation(); err != nil {
		fmt.Fprintf(c.out, "Forget failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Station credentials erased; provisioning runs on next start")
}

func (c *Console) cmdTrace(args []string) {
	n := defaultTraceLines
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(c.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	events := c.bc.Recorder.Events(log.Filter{})
	if len(events) > n {
		events = events[len(events)-n:]
	}
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No trace events")
		return
	}
	for _, e := range events {
		fmt.Fprintln(c.out, formatEvent(e))
	}
}

// formatEvent renders one trace event on a single line.
func formatEvent(e log.Event) string {
	ts := e.Timestamp.Format("15:04:05.000")
	switch {
	case e.Dispatch != nil:
		name := e.Dispatch.Name
		if name == "" {
			name = strconv.Itoa(int(e.Dispatch.ID))
		}
		return fmt.Sprintf("%s %-12s %s/%s seq=%d handlers=%d",
			ts, e.Component, e.Dispatch.Source, name, e.Dispatch.Seq, e.Dispatch.Handlers)
	case e.StateChange != nil:
		sc := e.StateChange
		s := fmt.Sprintf("%s %-12s %s %s -> %s", ts, e.Component, sc.Entity, sc.OldState, sc.NewState)
		if sc.Reason != "" {
			s += " (" + sc.Reason + ")"
		}
		return s
	case e.Error != nil:
		s := fmt.Sprintf("%s %-12s ERROR %s: %s", ts, e.Component, e.Error.Operation, e.Error.Message)
		if e.Error.Fatal {
			s += " [fatal]"
		}
		return s
	default:
		return fmt.Sprintf("%s %-12s %s", ts, e.Component, e.Category)
	}
}

func (c *Console) cmdDiscover(ctx context.Context, args []string) {
	serviceType := discovery.ServiceTypeAccessory
	timeout := defaultDiscoverTimeout

	if len(args) > 0 {
		switch args[0] {
		case "accessory":
		case "provisioning", "prov":
			serviceType = discovery.ServiceTypeProvisioning
		default:
			serviceType = args[0]
		}
	}
	if len(args) > 1 {
		d, err := time.ParseDuration(args[1])
		if err != nil || d <= 0 {
			fmt.Fprintf(c.out, "Invalid duration: %s\n", args[1])
			return
		}
		timeout = d
	}

	bctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Interface: c.bc.Config.Discovery.Interface})
	entries, err := browser.Browse(bctx, serviceType)
	if err != nil {
		fmt.Fprintf(c.out, "Browse failed: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "Browsing %s for %s...\n", serviceType, timeout)
	found := 0
	for entry := range entries {
		found++
		fmt.Fprintf(c.out, "  %s  %s:%d %s\n", entry.Instance, entry.Host, entry.Port, strings.Join(entry.Addresses, ","))
		for _, kv := range discovery.TXTRecordsToStrings(entry.TXT) {
			fmt.Fprintf(c.out, "      %s\n", kv)
		}
	}
	fmt.Fprintf(c.out, "%d instance(s) found\n", found)
}
