package bringup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// Components named in FatalError.
const (
	ComponentAccessory = "accessory"
	ComponentNetwork   = "network"
	ComponentServer    = "server"
)

// Bring-up phases traced with StateEntityBringup.
const (
	PhaseIdle           = "IDLE"
	PhaseInitAccessory  = "INIT_ACCESSORY"
	PhaseInitNetwork    = "INIT_NETWORK"
	PhaseStartAccessory = "START_ACCESSORY"
	PhaseProvision      = "PROVISION"
	PhaseRunning        = "RUNNING"
	PhaseFailed         = "FAILED"
	PhaseStopped        = "STOPPED"
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("bring-up already running")

// FatalError aborts the bring-up.
type FatalError struct {
	Component string
	Err       error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal %s error: %v", e.Component, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Run performs the bring-up and idles until ctx is done, returning nil, or
// until a fatal error occurs, returning a *FatalError. Run does not Close
// the context.
func (c *Context) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	phase := PhaseIdle
	advance := func(next string) {
		c.Trace.Log(log.NewStateEvent(log.ComponentOrchestrator, log.StateEntityBringup, phase, next, ""))
		phase = next
	}
	fail := func(component string, err error) error {
		c.logger.Error("bring-up failed", "failed_component", component, "phase", phase, "error", err)
		c.Trace.Log(log.NewErrorEvent(log.ComponentOrchestrator, phase, err, true))
		advance(PhaseFailed)
		return &FatalError{Component: component, Err: err}
	}

	advance(PhaseInitAccessory)
	if err := c.Accessory.Init(); err != nil {
		return fail(ComponentAccessory, err)
	}
	advance(PhaseInitNetwork)
	if err := c.Controller.Init(); err != nil {
		return fail(ComponentNetwork, err)
	}
	advance(PhaseStartAccessory)
	if err := c.Accessory.Start(); err != nil {
		return fail(ComponentAccessory, err)
	}
	advance(PhaseProvision)
	c.Controller.Provision()
	if err := c.Controller.LastError(); err != nil {
		c.logger.Warn("provisioning not started, retry from the console", "state", c.Controller.State(), "error", err)
	}

	advance(PhaseRunning)
	connected := c.watchConnectivity(ctx)

	ticker := time.NewTicker(c.Config.Bringup.LivenessInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			advance(PhaseStopped)
			return nil
		case err := <-c.Server.Errors():
			return fail(ComponentServer, err)
		case <-connected:
			connected = nil
			if err := c.Runtime.RefreshAdvertisement(); err != nil {
				c.logger.Warn("failed to refresh accessory advertisement", "error", err)
			}
		case <-ticker.C:
			c.logger.Info("still running",
				"provisioning", c.Controller.State(),
				"server", c.Server.State())
		}
	}
}

// watchConnectivity returns a channel closed once the station has an
// address. When a connect timeout is configured it logs a warning if the
// gate is not set in time.
func (c *Context) watchConnectivity(ctx context.Context) <-chan struct{} {
	g := c.Controller.Gate()
	timeout := c.Config.Bringup.ConnectTimeout
	if timeout <= 0 {
		return g.Done()
	}
	go func() {
		wctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := g.Wait(wctx); errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("station not connected yet", "waited", timeout, "state", c.Controller.State())
		}
	}()
	return g.Done()
}

// Running reports whether Run has been called.
func (c *Context) Running() bool {
	return c.running.Load()
}
