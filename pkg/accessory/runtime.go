package accessory

// TransportMode selects the network transport of the runtime.
type TransportMode uint8

const (
	TransportWiFi TransportMode = iota
	TransportEthernet
)

// String returns the transport name.
func (m TransportMode) String() string {
	if m == TransportEthernet {
		return "ETHERNET"
	}
	return "WIFI"
}

// Runtime is the accessory protocol runtime.
type Runtime interface {
	// Init initializes the runtime for the given transport.
	Init(mode TransportMode) error

	// AddAccessory registers an accessory in the accessory database.
	AddAccessory(a *Accessory) error

	// EnableHardwareAuth enables hardware-backed authentication.
	EnableHardwareAuth() error

	// Start starts the accessory transport.
	Start() error

	// Stop stops the accessory transport.
	Stop() error

	// IsWiFiProvisioned reports whether station credentials are stored.
	IsWiFiProvisioned() bool
}
