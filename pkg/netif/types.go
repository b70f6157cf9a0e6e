package netif

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/dbahrdt/accessory-bringup/pkg/event"
)

// Mode is the Wi-Fi driver operating mode.
type Mode uint8

const (
	ModeNull Mode = iota
	ModeStation
	ModeAccessPoint
	ModeAccessPointStation
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNull:
		return "NULL"
	case ModeStation:
		return "STA"
	case ModeAccessPoint:
		return "AP"
	case ModeAccessPointStation:
		return "APSTA"
	default:
		return fmt.Sprintf("MODE(%d)", uint8(m))
	}
}

// HasStation reports whether the station interface is active in m.
func (m Mode) HasStation() bool {
	return m == ModeStation || m == ModeAccessPointStation
}

// HasAccessPoint reports whether the access-point interface is active in m.
func (m Mode) HasAccessPoint() bool {
	return m == ModeAccessPoint || m == ModeAccessPointStation
}

// WIFI_EVENT identifiers.
const (
	EventWiFiReady               event.ID = 0
	EventScanDone                event.ID = 1
	EventStationStart            event.ID = 2
	EventStationStop             event.ID = 3
	EventStationConnected        event.ID = 4
	EventStationDisconnected     event.ID = 5
	EventAccessPointStart        event.ID = 12
	EventAccessPointStop         event.ID = 13
	EventAccessPointClientJoined event.ID = 14
	EventAccessPointClientLeft   event.ID = 15
)

// IP_EVENT identifiers.
const (
	EventStationGotIP  event.ID = 0
	EventStationLostIP event.ID = 1
)

// EventNames returns readable names for the WIFI_EVENT and IP_EVENT ids.
func EventNames() map[event.Source]map[event.ID]string {
	return map[event.Source]map[event.ID]string{
		event.SourceWiFi: {
			EventWiFiReady:               "WIFI_READY",
			EventScanDone:                "SCAN_DONE",
			EventStationStart:            "STA_START",
			EventStationStop:             "STA_STOP",
			EventStationConnected:        "STA_CONNECTED",
			EventStationDisconnected:     "STA_DISCONNECTED",
			EventAccessPointStart:        "AP_START",
			EventAccessPointStop:         "AP_STOP",
			EventAccessPointClientJoined: "AP_STACONNECTED",
			EventAccessPointClientLeft:   "AP_STADISCONNECTED",
		},
		event.SourceIP: {
			EventStationGotIP:  "STA_GOT_IP",
			EventStationLostIP: "STA_LOST_IP",
		},
	}
}

// DisconnectReason is the driver's reason code for a station disconnect.
type DisconnectReason uint8

// Reason codes reported with EventStationDisconnected.
const (
	ReasonUnspecified        DisconnectReason = 1
	ReasonAuthExpire         DisconnectReason = 2
	ReasonAssocLeave         DisconnectReason = 8
	ReasonHandshakeTimeout   DisconnectReason = 15
	ReasonBeaconTimeout      DisconnectReason = 200
	ReasonNoAccessPointFound DisconnectReason = 201
	ReasonAuthFail           DisconnectReason = 202
	ReasonAssocFail          DisconnectReason = 203
)

// IsAuthFailure reports whether the reason indicates rejected credentials.
func (r DisconnectReason) IsAuthFailure() bool {
	switch r {
	case ReasonAuthExpire, ReasonHandshakeTimeout, ReasonAuthFail, ReasonAssocFail:
		return true
	}
	return false
}

// String returns the reason name.
func (r DisconnectReason) String() string {
	switch r {
	case ReasonUnspecified:
		return "UNSPECIFIED"
	case ReasonAuthExpire:
		return "AUTH_EXPIRE"
	case ReasonAssocLeave:
		return "ASSOC_LEAVE"
	case ReasonHandshakeTimeout:
		return "HANDSHAKE_TIMEOUT"
	case ReasonBeaconTimeout:
		return "BEACON_TIMEOUT"
	case ReasonNoAccessPointFound:
		return "NO_AP_FOUND"
	case ReasonAuthFail:
		return "AUTH_FAIL"
	case ReasonAssocFail:
		return "ASSOC_FAIL"
	default:
		return fmt.Sprintf("REASON(%d)", uint8(r))
	}
}

// StationConnected is the payload of EventStationConnected.
type StationConnected struct {
	SSID    string
	Channel uint8
}

// StationDisconnected is the payload of EventStationDisconnected.
type StationDisconnected struct {
	SSID   string
	Reason DisconnectReason
}

// IPAcquired is the payload of EventStationGotIP.
type IPAcquired struct {
	Addr    netip.Prefix
	Gateway netip.Addr
	Changed bool
}

// Credentials is an SSID/passphrase pair.
type Credentials struct {
	SSID       string
	Passphrase string
}

// Empty reports whether no SSID is set.
func (c Credentials) Empty() bool {
	return c.SSID == ""
}

// AccessPointConfig configures the soft access point.
type AccessPointConfig struct {
	SSID       string
	Passphrase string
	Channel    uint8
	MaxClients uint8
}

// DriverConfig is the Wi-Fi driver initialization configuration.
type DriverConfig struct {
	// Country code applied to the radio.
	Country string

	// PersistCredentials stores the station configuration across restarts.
	PersistCredentials bool
}

// DefaultDriverConfig returns the default driver configuration.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		Country:            "01",
		PersistCredentials: true,
	}
}

// Errors returned by drivers.
var (
	ErrNetifNotInitialized  = errors.New("network interface layer not initialized")
	ErrDriverNotInitialized = errors.New("wifi driver not initialized")
	ErrInterfaceExists      = errors.New("default interface already created")
	ErrNoInterface          = errors.New("default interface not created")
	ErrNotStarted           = errors.New("wifi driver not started")
	ErrInvalidMode          = errors.New("invalid wifi mode")
	ErrNotConfigured        = errors.New("station not configured")
	ErrInvalidSSID          = errors.New("invalid ssid")
)

// Driver is the Wi-Fi driver and network interface layer.
type Driver interface {
	// InitNetif initializes the network interface layer.
	InitNetif() error

	// CreateDefaultStation creates the default station interface.
	CreateDefaultStation() error

	// CreateDefaultAccessPoint creates the default access-point interface.
	CreateDefaultAccessPoint() error

	// Init initializes the Wi-Fi driver.
	Init(cfg DriverConfig) error

	// SetMode selects the operating mode.
	SetMode(mode Mode) error

	// Mode returns the current operating mode.
	Mode() Mode

	// Start starts the driver in the current mode. Progress is reported as
	// EventStationStart / EventAccessPointStart.
	Start() error

	// Stop stops the driver.
	Stop() error

	// Connect starts a station connection attempt with the stored
	// configuration. The outcome is reported asynchronously.
	Connect() error

	// Disconnect drops the station connection.
	Disconnect() error

	// StationConfig returns the stored station configuration.
	StationConfig() (Credentials, error)

	// SetStationConfig stores the station configuration.
	SetStationConfig(creds Credentials) error

	// SetAccessPointConfig configures the soft access point.
	SetAccessPointConfig(cfg AccessPointConfig) error
}
