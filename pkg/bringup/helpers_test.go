package bringup_test

import (
	"context"
	"sync"

	"github.com/dbahrdt/accessory-bringup/pkg/discovery"
)

type recordingAdvertiser struct {
	mu      sync.Mutex
	acc     *discovery.AccessoryInfo
	updated int
	prov    *discovery.ProvisioningInfo
}

func (a *recordingAdvertiser) AdvertiseAccessory(_ context.Context, info *discovery.AccessoryInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc = info
	return nil
}

func (a *recordingAdvertiser) UpdateAccessory(info *discovery.AccessoryInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc = info
	a.updated++
	return nil
}

func (a *recordingAdvertiser) StopAccessory() error { return nil }

func (a *recordingAdvertiser) AdvertiseProvisioning(_ context.Context, info *discovery.ProvisioningInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prov = info
	return nil
}

func (a *recordingAdvertiser) StopProvisioning() error { return nil }

func (a *recordingAdvertiser) StopAll() {}

func (a *recordingAdvertiser) accessory() *discovery.AccessoryInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acc
}

func (a *recordingAdvertiser) updates() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updated
}
