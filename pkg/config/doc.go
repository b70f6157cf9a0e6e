// Package config loads the accessory bring-up configuration.
//
// Configuration comes from a YAML file layered over Default(). Secrets can
// be supplied through the environment instead of the file:
//
//	ACCESSORY_POP            provisioning proof-of-possession
//	ACCESSORY_SERVICE_KEY    soft access point passphrase
//	ACCESSORY_MQTT_PASSWORD  status broker password
//
// Usage:
//
//	cfg, err := config.Load("/etc/accessory/device.yaml")
//	if err != nil {
//	    return err
//	}
package config
