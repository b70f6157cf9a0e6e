package discovery

import (
	"context"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// AdvertiseAccessory starts (or replaces) the _hap._tcp advertisement.
	AdvertiseAccessory(ctx context.Context, info *AccessoryInfo) error

	// UpdateAccessory replaces the TXT records of the accessory advertisement.
	UpdateAccessory(info *AccessoryInfo) error

	// StopAccessory withdraws the accessory advertisement.
	StopAccessory() error

	// AdvertiseProvisioning starts the _esp_wifi_prov._tcp advertisement.
	AdvertiseProvisioning(ctx context.Context, info *ProvisioningInfo) error

	// StopProvisioning withdraws the provisioning advertisement.
	StopProvisioning() error

	// StopAll stops all advertisements.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: 120 * time.Second,
	}
}

// NoopAdvertiser advertises nothing. It is used when mDNS is disabled.
type NoopAdvertiser struct{}

func (NoopAdvertiser) AdvertiseAccessory(context.Context, *AccessoryInfo) error       { return nil }
func (NoopAdvertiser) UpdateAccessory(*AccessoryInfo) error                           { return nil }
func (NoopAdvertiser) StopAccessory() error                                           { return nil }
func (NoopAdvertiser) AdvertiseProvisioning(context.Context, *ProvisioningInfo) error { return nil }
func (NoopAdvertiser) StopProvisioning() error                                        { return nil }
func (NoopAdvertiser) StopAll()                                                       {}

var _ Advertiser = NoopAdvertiser{}
