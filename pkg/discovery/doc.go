// Package discovery advertises the accessory and its provisioning service
// over mDNS/DNS-SD.
//
// Two service types are used:
//
// # Accessory (_hap._tcp)
//
// Advertised while the accessory transport runs. Instance name is the
// accessory name. TXT records:
//   - c#: configuration number
//   - ff: feature flags (1 = hardware authentication)
//   - id: device ID (XX:XX:XX:XX:XX:XX)
//   - md: model
//   - pv: protocol version
//   - s#: state number
//   - sf: status flags (1 = not paired, 4 = problem detected)
//   - ci: accessory category
//   - sh: setup hash (optional)
//
// # Provisioning (_esp_wifi_prov._tcp)
//
// Advertised while a provisioning session is open. Instance name is the
// provisioning service name. TXT records carry the endpoint paths and the
// session security version.
//
// # Setup Payload
//
// The setup payload printed for pairing is X-HM://<9 base36 digits><setup id>.
package discovery
