package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu           sync.Mutex
	accessory    *zeroconf.Server
	provisioning *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	if config.Interface != "" {
		if _, err := net.InterfaceByName(config.Interface); err != nil {
			return nil, fmt.Errorf("mdns interface %q: %w", config.Interface, err)
		}
	}
	return &MDNSAdvertiser{config: config}, nil
}

// getInterfaces returns the interfaces to advertise on, nil for all.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

func (a *MDNSAdvertiser) register(svc Service) (*zeroconf.Server, error) {
	if err := ValidateInstanceName(svc.Instance); err != nil {
		return nil, fmt.Errorf("%w: %q", err, svc.Instance)
	}
	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}
	return zeroconf.Register(
		svc.Instance,
		svc.Type,
		Domain,
		svc.Port,
		TXTRecordsToStrings(svc.TXT),
		a.getInterfaces(),
		opts...,
	)
}

// AdvertiseAccessory starts advertising the accessory.
func (a *MDNSAdvertiser) AdvertiseAccessory(ctx context.Context, info *AccessoryInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessory != nil {
		a.accessory.Shutdown()
		a.accessory = nil
	}
	server, err := a.register(Service{
		Instance: info.Name,
		Type:     ServiceTypeAccessory,
		Port:     info.Port,
		TXT:      EncodeAccessoryTXT(info),
	})
	if err != nil {
		return fmt.Errorf("failed to register accessory service: %w", err)
	}
	a.accessory = server
	return nil
}

// UpdateAccessory updates the accessory TXT records.
func (a *MDNSAdvertiser) UpdateAccessory(info *AccessoryInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessory == nil {
		return ErrNotFound
	}
	a.accessory.SetText(TXTRecordsToStrings(EncodeAccessoryTXT(info)))
	return nil
}

// StopAccessory stops advertising the accessory.
func (a *MDNSAdvertiser) StopAccessory() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessory != nil {
		a.accessory.Shutdown()
		a.accessory = nil
	}
	return nil
}

// AdvertiseProvisioning starts advertising the provisioning service.
func (a *MDNSAdvertiser) AdvertiseProvisioning(ctx context.Context, info *ProvisioningInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provisioning != nil {
		a.provisioning.Shutdown()
		a.provisioning = nil
	}
	server, err := a.register(Service{
		Instance: info.ServiceName,
		Type:     ServiceTypeProvisioning,
		Port:     info.Port,
		TXT:      EncodeProvisioningTXT(info),
	})
	if err != nil {
		return fmt.Errorf("failed to register provisioning service: %w", err)
	}
	a.provisioning = server
	return nil
}

// StopProvisioning stops advertising the provisioning service.
func (a *MDNSAdvertiser) StopProvisioning() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provisioning != nil {
		a.provisioning.Shutdown()
		a.provisioning = nil
	}
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessory != nil {
		a.accessory.Shutdown()
		a.accessory = nil
	}
	if a.provisioning != nil {
		a.provisioning.Shutdown()
		a.provisioning = nil
	}
}

var _ Advertiser = (*MDNSAdvertiser)(nil)
