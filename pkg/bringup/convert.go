package bringup

import (
	"fmt"

	"github.com/dbahrdt/accessory-bringup/pkg/accessory"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
)

func accessoryInfo(d config.DeviceConfig) (accessory.Info, error) {
	category, err := accessory.ParseCategory(d.Category)
	if err != nil {
		return accessory.Info{}, err
	}
	info := accessory.Info{
		Name:             d.Name,
		Model:            d.Model,
		Manufacturer:     d.Manufacturer,
		SerialNumber:     d.Serial,
		FirmwareRevision: d.Firmware,
		HardwareRevision: d.Hardware,
		ProtocolVersion:  d.ProtocolVersion,
		Category:         category,
	}
	if d.ProductData != "" {
		info.ProductData = []byte(d.ProductData)
	}
	return info, nil
}

func serviceIdentity(p config.ProvisioningConfig) (provisioning.ServiceIdentity, error) {
	id := provisioning.ServiceIdentity{
		Name:              p.ServiceName,
		ProofOfPossession: p.PoP,
		ServiceKey:        p.ServiceKey,
	}
	switch p.Security {
	case "open":
		id.Security = provisioning.SecurityOpen
		id.ProofOfPossession = ""
	case "authenticated_encrypted", "":
		id.Security = provisioning.SecurityAuthenticatedEncrypted
	default:
		return id, fmt.Errorf("unknown provisioning security %q", p.Security)
	}
	return id, id.Validate()
}
