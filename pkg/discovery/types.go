package discovery

import (
	"errors"
)

// Service types.
const (
	ServiceTypeAccessory    = "_hap._tcp"
	ServiceTypeProvisioning = "_esp_wifi_prov._tcp"
	Domain                  = "local."
)

// Accessory TXT keys.
const (
	TXTKeyConfigNumber   = "c#"
	TXTKeyFeatureFlags   = "ff"
	TXTKeyDeviceID       = "id"
	TXTKeyModel          = "md"
	TXTKeyProtoVersion   = "pv"
	TXTKeyStateNumber    = "s#"
	TXTKeyStatusFlags    = "sf"
	TXTKeyCategory       = "ci"
	TXTKeySetupHash      = "sh"
	TXTKeySecurityVer    = "sec_ver"
	TXTKeySessionPath    = "session_ep"
	TXTKeyConfigPath     = "config_ep"
	TXTKeyProtoVerPath   = "proto_ver_ep"
	TXTKeyTransport      = "transport"
	maxTXTValueLength    = 255 - 4
	maxInstanceNameBytes = 63
)

// Status flags.
const (
	StatusFlagNotPaired uint8 = 1 << 0
	StatusFlagNoWiFi    uint8 = 1 << 1
	StatusFlagProblem   uint8 = 1 << 2
)

// FeatureFlagHardwareAuth marks hardware-backed authentication support.
const FeatureFlagHardwareAuth uint8 = 1

// Errors.
var (
	ErrNotFound            = errors.New("service not advertised")
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidInstanceName = errors.New("invalid instance name")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record")
	ErrInvalidSetupCode    = errors.New("invalid setup code")
	ErrInvalidSetupID      = errors.New("invalid setup id")
	ErrInvalidPayload      = errors.New("invalid setup payload")
)

// Service is one DNS-SD service instance.
type Service struct {
	Instance string
	Type     string
	Port     int
	TXT      TXTRecordMap
}

// AccessoryInfo is the content of the _hap._tcp advertisement.
type AccessoryInfo struct {
	Name         string
	DeviceID     string
	Model        string
	ProtoVersion string
	Category     uint16
	ConfigNumber uint32
	StateNumber  uint32
	FeatureFlags uint8
	StatusFlags  uint8
	SetupHash    string
	Port         int
}

// ProvisioningInfo is the content of the _esp_wifi_prov._tcp advertisement.
type ProvisioningInfo struct {
	ServiceName string
	SecurityVer uint8
	Port        int
}

// Entry is a browsed service.
type Entry struct {
	Instance  string
	Host      string
	Port      int
	Addresses []string
	TXT       TXTRecordMap
}
