package bringup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/dbahrdt/accessory-bringup/pkg/accessory"
	"github.com/dbahrdt/accessory-bringup/pkg/cert"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
	"github.com/dbahrdt/accessory-bringup/pkg/event"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/netif"
	"github.com/dbahrdt/accessory-bringup/pkg/persistence"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
	"github.com/dbahrdt/accessory-bringup/pkg/status"
	"github.com/dbahrdt/accessory-bringup/pkg/webserver"
)

// recorderLimit bounds the in-memory trace kept for the console.
const recorderLimit = 1000

// Options supplies collaborators that Build would otherwise create from
// the configuration.
type Options struct {
	Logger *slog.Logger

	// Trace receives trace events in addition to the configured sinks.
	Trace log.Logger

	// Advertiser replaces the mDNS advertiser.
	Advertiser discovery.Advertiser

	// StatusTransport replaces the MQTT connection when mqtt is enabled.
	StatusTransport status.Transport
}

// Context owns the bring-up components.
type Context struct {
	Config *config.Config
	Logger *slog.Logger

	// Trace fans out to Recorder, the trace file and the status publisher.
	Trace    log.Logger
	Recorder *log.Recorder

	Router     *event.Router
	Store      persistence.StationStore
	Driver     *netif.Simulator
	Advertiser discovery.Advertiser
	Runtime    *accessory.HTTPRuntime
	Accessory  *accessory.Bringup
	Manager    *provisioning.SoftAPManager
	Controller *provisioning.Controller
	Server     *webserver.Server

	// Status is nil unless mqtt is enabled.
	Status *status.Publisher

	// TraceID identifies this run in trace events.
	TraceID string

	// CertCreated reports whether Build generated the server certificate.
	CertCreated bool

	logger  *slog.Logger
	running atomic.Bool
	closers []func() error
	closing sync.Once
}

// Build constructs the components described by cfg.
func Build(cfg *config.Config, opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Context{
		Config:   cfg,
		Logger:   logger,
		Recorder: log.NewRecorder(recorderLimit),
		logger:   logger.With("component", "bringup"),
	}
	if err := c.build(opts); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) build(opts Options) error {
	cfg := c.Config
	info, err := accessoryInfo(cfg.Device)
	if err != nil {
		return err
	}
	deviceID := discovery.DeviceIDFromSerial(info.SerialNumber)

	sinks := []log.Logger{c.Recorder, opts.Trace}
	if strings.EqualFold(cfg.Logging.Level, "debug") {
		sinks = append(sinks, log.NewSlogAdapter(c.Logger))
	}
	if path := cfg.Logging.TraceFile; path != "" {
		fl, err := log.NewFileLogger(path)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		c.closers = append(c.closers, fl.Close)
		sinks = append(sinks, fl)
	}
	if cfg.MQTT.Enabled {
		pub, err := c.newStatusPublisher(deviceID, opts.StatusTransport)
		if err != nil {
			return err
		}
		c.Status = pub
		sinks = append(sinks, pub)
	}
	c.TraceID = uuid.NewString()
	c.Trace = log.NewStampLogger(log.NewMultiLogger(sinks...), c.TraceID, deviceID)
	c.logger = c.logger.With("trace_id", c.TraceID)

	names := netif.EventNames()
	for src, ids := range provisioning.EventNames() {
		names[src] = ids
	}
	c.Router = event.NewRouter(event.Config{
		QueueSize: cfg.Events.QueueSize,
		Names:     names,
		Logger:    c.Logger,
		Trace:     c.Trace,
	})

	if cfg.WiFi.StatePath != "" {
		c.Store = persistence.NewFileStore(cfg.WiFi.StatePath)
	} else {
		c.Store = persistence.NewMemoryStore(nil)
	}

	simCfg := netif.SimulatorConfig{
		Poster:       c.Router,
		Store:        c.Store,
		ConnectDelay: cfg.WiFi.ConnectDelay,
		Interface:    cfg.WiFi.Interface,
		Logger:       c.Logger,
	}
	for _, n := range cfg.WiFi.Networks {
		simCfg.Networks = append(simCfg.Networks, netif.Network{SSID: n.SSID, Passphrase: n.Passphrase, Channel: n.Channel})
	}
	if cfg.WiFi.Address != "" {
		if simCfg.Address, err = netip.ParsePrefix(cfg.WiFi.Address); err != nil {
			return fmt.Errorf("wifi address: %w", err)
		}
	}
	c.Driver = netif.NewSimulator(simCfg)

	switch {
	case opts.Advertiser != nil:
		c.Advertiser = opts.Advertiser
	case cfg.Discovery.Enabled:
		adv, err := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.Discovery.Interface,
			TTL:       cfg.Discovery.TTL,
		})
		if err != nil {
			return fmt.Errorf("mdns advertiser: %w", err)
		}
		c.Advertiser = adv
	default:
		c.Advertiser = discovery.NoopAdvertiser{}
	}

	transport := accessory.TransportWiFi
	if cfg.Accessory.Transport == "ethernet" {
		transport = accessory.TransportEthernet
	}
	c.Runtime = accessory.NewHTTPRuntime(accessory.HTTPRuntimeConfig{
		ListenAddr: cfg.Accessory.ListenAddr,
		Store:      c.Store,
		Advertiser: c.Advertiser,
		SetupID:    cfg.Device.SetupID,
		Logger:     c.Logger,
		Trace:      c.Trace,
	})
	c.Accessory = accessory.NewBringup(accessory.Config{
		Info:         info,
		ServiceName:  cfg.Device.ServiceName,
		Transport:    transport,
		HardwareAuth: cfg.Device.MFiAuth,
		Logger:       c.Logger,
		Trace:        c.Trace,
	}, c.Runtime)

	c.Manager = provisioning.NewSoftAPManager(provisioning.SoftAPConfig{
		Driver:     c.Driver,
		Poster:     c.Router,
		Events:     c.Router,
		Mounter:    c.Runtime,
		Advertiser: c.Advertiser,
		EndDelay:   cfg.Provisioning.EndDelay,
		Logger:     c.Logger,
		Trace:      c.Trace,
	})

	certPEM, keyPEM, err := c.loadCertificate(info.Name)
	if err != nil {
		return err
	}
	c.Server = webserver.New(webserver.Config{
		CertPEM:         certPEM,
		KeyPEM:          keyPEM,
		Host:            cfg.Server.Host,
		SecurePort:      cfg.Server.SecurePort,
		InsecurePort:    cfg.Server.InsecurePort,
		DisableInsecure: cfg.Server.DisableInsecure,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          c.Logger,
		Trace:           c.Trace,
	})

	identity, err := serviceIdentity(cfg.Provisioning)
	if err != nil {
		return err
	}
	authority, err := provisioning.ParseAuthority(cfg.Provisioning.Authority)
	if err != nil {
		return err
	}
	c.Controller = provisioning.NewController(provisioning.Config{
		Identity:         identity,
		Scheme:           provisioning.Scheme(cfg.Provisioning.Scheme),
		Authority:        authority,
		ServerStartDelay: cfg.Server.StartDelay,
		Reconnect: provisioning.ReconnectPolicy{
			Backoff:         cfg.WiFi.Reconnect.Backoff,
			InitialInterval: cfg.WiFi.Reconnect.InitialInterval,
			MaxInterval:     cfg.WiFi.Reconnect.MaxInterval,
			Multiplier:      cfg.WiFi.Reconnect.Multiplier,
		},
		Driver: netif.DriverConfig{
			Country:            cfg.WiFi.Country,
			PersistCredentials: true,
		},
		Logger: c.Logger,
		Trace:  c.Trace,
	}, provisioning.Deps{
		Driver:     c.Driver,
		Dispatcher: c.Router,
		Manager:    c.Manager,
		Accessory:  c.Accessory,
		Server:     c.Server,
	})
	return nil
}

func (c *Context) newStatusPublisher(deviceID string, tr status.Transport) (*status.Publisher, error) {
	mc := c.Config.MQTT
	topic := status.Topic(mc.TopicPrefix, deviceID)
	if tr == nil {
		conn, err := status.ConnectMQTT(status.MQTTConfig{
			Broker:      mc.Broker,
			ClientID:    mc.ClientID,
			Username:    mc.Username,
			Password:    mc.Password,
			QoS:         byte(mc.QoS),
			Timeout:     mc.Timeout,
			WillTopic:   topic,
			WillPayload: status.OfflinePayload(),
		})
		if err != nil {
			return nil, err
		}
		tr = conn
	}
	pub := status.NewPublisher(status.Config{
		Transport: tr,
		Topic:     topic,
		QoS:       byte(mc.QoS),
		Logger:    c.Logger,
	})
	c.closers = append(c.closers, pub.Close)
	return pub, nil
}

// loadCertificate reads the server identity. The contents are not checked
// here: a corrupt identity fails the server start.
func (c *Context) loadCertificate(commonName string) (certPEM, keyPEM []byte, err error) {
	sc := c.Config.Server
	if !sc.SelfSigned {
		certPEM, keyPEM, err = cert.ReadFiles(sc.CertFile, sc.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read server certificate: %w", err)
		}
		return certPEM, keyPEM, nil
	}

	hosts := []string{"localhost", "127.0.0.1"}
	if sc.Host != "" {
		hosts = append(hosts, sc.Host)
	}
	certPEM, keyPEM, c.CertCreated, err = cert.LoadOrCreate(sc.CertFile, sc.KeyFile, cert.Options{
		CommonName: commonName,
		Hosts:      hosts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load server certificate: %w", err)
	}
	if c.CertCreated {
		c.logger.Info("created self-signed server certificate", "cert", sc.CertFile, "key", sc.KeyFile)
	}
	return certPEM, keyPEM, nil
}

// Close stops every component in reverse dependency order. It is safe to
// call more than once.
func (c *Context) Close() error {
	var errs []error
	c.closing.Do(func() {
		if c.Controller != nil {
			c.Controller.Close()
		}
		if c.Server != nil {
			c.Server.Stop()
		}
		if c.Manager != nil {
			c.Manager.Deinit()
		}
		if c.Accessory != nil {
			if err := c.Accessory.Stop(); err != nil {
				errs = append(errs, err)
			}
		}
		if c.Driver != nil {
			if err := c.Driver.Stop(); err != nil {
				errs = append(errs, err)
			}
		}
		if c.Router != nil {
			c.Router.Stop()
		}
		if c.Advertiser != nil {
			c.Advertiser.StopAll()
		}
		for i := len(c.closers) - 1; i >= 0; i-- {
			if err := c.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
