package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding secrets.
const (
	EnvProofOfPossession = "ACCESSORY_POP"
	EnvServiceKey        = "ACCESSORY_SERVICE_KEY"
	EnvMQTTPassword      = "ACCESSORY_MQTT_PASSWORD"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration.
type Config struct {
	Device       DeviceConfig       `yaml:"device"`
	Provisioning ProvisioningConfig `yaml:"provisioning"`
	WiFi         WiFiConfig         `yaml:"wifi"`
	Accessory    AccessoryConfig    `yaml:"accessory"`
	Server       ServerConfig       `yaml:"server"`
	Discovery    DiscoveryConfig    `yaml:"discovery"`
	Events       EventsConfig       `yaml:"events"`
	Bringup      BringupConfig      `yaml:"bringup"`
	Logging      LoggingConfig      `yaml:"logging"`
	MQTT         MQTTConfig         `yaml:"mqtt"`
}

// DeviceConfig is the accessory identity.
type DeviceConfig struct {
	Name            string `yaml:"name"`
	Model           string `yaml:"model"`
	Manufacturer    string `yaml:"manufacturer"`
	Serial          string `yaml:"serial"`
	Firmware        string `yaml:"firmware"`
	Hardware        string `yaml:"hardware"`
	ProtocolVersion string `yaml:"protocol_version"`
	Category        string `yaml:"category"`
	ServiceName     string `yaml:"service_name"`
	ProductData     string `yaml:"product_data"`
	SetupID         string `yaml:"setup_id"`

	// MFiAuth enables hardware authentication. Init fails when the
	// runtime cannot provide it.
	MFiAuth bool `yaml:"mfi_auth"`
}

// ProvisioningConfig configures the provisioning service.
type ProvisioningConfig struct {
	ServiceName string `yaml:"service_name"`

	// Security is "open" or "authenticated_encrypted".
	Security string `yaml:"security"`
	PoP      string `yaml:"pop"`

	// ServiceKey is the soft access point passphrase; absent means open.
	ServiceKey *string `yaml:"service_key"`

	Scheme    string        `yaml:"scheme"`
	Authority string        `yaml:"authority"`
	EndDelay  time.Duration `yaml:"end_delay"`
}

// Network is a simulated access point.
type Network struct {
	SSID       string `yaml:"ssid"`
	Passphrase string `yaml:"passphrase"`
	Channel    uint8  `yaml:"channel"`
}

// WiFiConfig configures the station and the host simulator behind it.
type WiFiConfig struct {
	// StatePath persists the station configuration. Empty keeps it in memory.
	StatePath string `yaml:"state_path"`

	// Interface takes the station address from a host interface.
	Interface string `yaml:"interface"`

	// Address is the simulated station address, e.g. 192.168.4.2/24.
	Address string `yaml:"address"`

	Country      string          `yaml:"country"`
	ConnectDelay time.Duration   `yaml:"connect_delay"`
	Networks     []Network       `yaml:"networks"`
	Reconnect    ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig selects the reconnection policy. Zero values reconnect
// immediately.
type ReconnectConfig struct {
	Backoff         bool          `yaml:"backoff"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Multiplier      float64       `yaml:"multiplier"`
}

// AccessoryConfig configures the accessory transport.
type AccessoryConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	// Transport is "wifi" or "ethernet".
	Transport string `yaml:"transport"`
}

// ServerConfig configures the secure server.
type ServerConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// SelfSigned creates the certificate files when they do not exist.
	SelfSigned bool `yaml:"self_signed"`

	Host            string        `yaml:"host"`
	SecurePort      int           `yaml:"secure_port"`
	InsecurePort    int           `yaml:"insecure_port"`
	DisableInsecure bool          `yaml:"disable_insecure"`
	StartDelay      time.Duration `yaml:"start_delay"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DiscoveryConfig configures mDNS advertising.
type DiscoveryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interface string        `yaml:"interface"`
	TTL       time.Duration `yaml:"ttl"`
}

// EventsConfig configures the event router.
type EventsConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// BringupConfig configures the orchestrator.
type BringupConfig struct {
	LivenessInterval time.Duration `yaml:"liveness_interval"`

	// ConnectTimeout logs a warning when the station has not connected
	// within this time. Zero disables the warning.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LoggingConfig configures operational and trace logging.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	TraceFile string `yaml:"trace_file"`
}

// MQTTConfig configures the status publisher.
type MQTTConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Broker      string        `yaml:"broker"`
	ClientID    string        `yaml:"client_id"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	TopicPrefix string        `yaml:"topic_prefix"`
	QoS         int           `yaml:"qos"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns the demonstration accessory configuration.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:            "mwe test",
			Model:           "MWE01",
			Manufacturer:    "MWE",
			Serial:          "001122334455",
			Firmware:        "0.9.0",
			ProtocolVersion: "1.1.0",
			Category:        "outlet",
			ServiceName:     "My Accessory",
			ProductData:     "ESP32HAP",
		},
		Provisioning: ProvisioningConfig{
			ServiceName: "mwe-wolfssl-crash",
			Security:    "authenticated_encrypted",
			PoP:         "106000115",
			Scheme:      "softap",
			Authority:   "accessory",
			EndDelay:    time.Second,
		},
		WiFi: WiFiConfig{
			Country:      "01",
			ConnectDelay: 50 * time.Millisecond,
		},
		Accessory: AccessoryConfig{
			ListenAddr: ":51826",
			Transport:  "wifi",
		},
		Server: ServerConfig{
			CertFile:        "server.crt",
			KeyFile:         "server.key",
			SelfSigned:      true,
			SecurePort:      4443,
			InsecurePort:    8080,
			StartDelay:      5 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			TTL:     120 * time.Second,
		},
		Events: EventsConfig{
			QueueSize: 32,
		},
		Bringup: BringupConfig{
			LivenessInterval: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "accessory-bringup",
			TopicPrefix: "accessory",
			QoS:         1,
			Timeout:     5 * time.Second,
		},
	}
}

// Load reads path over Default(), applies environment overrides and
// validates the result. An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvProofOfPossession); v != "" {
		cfg.Provisioning.PoP = v
	}
	if v, ok := os.LookupEnv(EnvServiceKey); ok {
		if v == "" {
			cfg.Provisioning.ServiceKey = nil
		} else {
			cfg.Provisioning.ServiceKey = &v
		}
	}
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		cfg.MQTT.Password = v
	}
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []string

	if c.Device.Name == "" {
		errs = append(errs, "device.name is required")
	}
	if c.Device.Serial == "" {
		errs = append(errs, "device.serial is required")
	}
	if n := len(c.Device.ProductData); n != 0 && n != 8 {
		errs = append(errs, "device.product_data must be 8 bytes")
	}
	if id := c.Device.SetupID; id != "" && len(id) != 4 {
		errs = append(errs, "device.setup_id must be 4 characters")
	}

	if c.Provisioning.ServiceName == "" {
		errs = append(errs, "provisioning.service_name is required")
	}
	switch c.Provisioning.Security {
	case "open":
	case "authenticated_encrypted":
		if c.Provisioning.PoP == "" {
			errs = append(errs, "provisioning.pop is required for authenticated_encrypted security (set "+EnvProofOfPossession+")")
		}
	default:
		errs = append(errs, "provisioning.security must be open or authenticated_encrypted")
	}
	if k := c.Provisioning.ServiceKey; k != nil && len(*k) < 8 {
		errs = append(errs, "provisioning.service_key must be at least 8 characters")
	}
	if c.Provisioning.Scheme != "softap" {
		errs = append(errs, "provisioning.scheme must be softap")
	}
	switch c.Provisioning.Authority {
	case "", "accessory", "manager":
	default:
		errs = append(errs, "provisioning.authority must be accessory or manager")
	}

	if c.WiFi.Address != "" {
		if _, err := netip.ParsePrefix(c.WiFi.Address); err != nil {
			errs = append(errs, "wifi.address must be a prefix such as 192.168.4.2/24")
		}
	}
	for i, n := range c.WiFi.Networks {
		if n.SSID == "" || len(n.SSID) > 32 {
			errs = append(errs, fmt.Sprintf("wifi.networks[%d].ssid must be 1-32 bytes", i))
		}
	}
	if c.WiFi.Reconnect.Multiplier != 0 && c.WiFi.Reconnect.Multiplier < 1 {
		errs = append(errs, "wifi.reconnect.multiplier must be at least 1")
	}

	switch c.Accessory.Transport {
	case "", "wifi", "ethernet":
	default:
		errs = append(errs, "accessory.transport must be wifi or ethernet")
	}

	if c.Server.CertFile == "" || c.Server.KeyFile == "" {
		errs = append(errs, "server.cert_file and server.key_file are required")
	}
	if !validPort(c.Server.SecurePort) {
		errs = append(errs, "server.secure_port must be between -1 and 65535")
	}
	if !c.Server.DisableInsecure && !validPort(c.Server.InsecurePort) {
		errs = append(errs, "server.insecure_port must be between -1 and 65535")
	}
	if c.Server.StartDelay < 0 {
		errs = append(errs, "server.start_delay must not be negative")
	}

	if c.Events.QueueSize < 1 {
		errs = append(errs, "events.queue_size must be positive")
	}
	if c.Bringup.LivenessInterval <= 0 {
		errs = append(errs, "bringup.liveness_interval must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "logging.level must be debug, info, warn or error")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, "logging.format must be text or json")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			errs = append(errs, "mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// validPort accepts -1 for an ephemeral port and 0 for the default.
func validPort(p int) bool {
	return p >= -1 && p <= 65535
}
