package discovery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeAccessoryTXT creates the _hap._tcp TXT records.
func EncodeAccessoryTXT(info *AccessoryInfo) TXTRecordMap {
	cn := info.ConfigNumber
	if cn == 0 {
		cn = 1
	}
	sn := info.StateNumber
	if sn == 0 {
		sn = 1
	}
	txt := TXTRecordMap{
		TXTKeyConfigNumber: strconv.FormatUint(uint64(cn), 10),
		TXTKeyFeatureFlags: strconv.FormatUint(uint64(info.FeatureFlags), 10),
		TXTKeyDeviceID:     info.DeviceID,
		TXTKeyModel:        info.Model,
		TXTKeyProtoVersion: info.ProtoVersion,
		TXTKeyStateNumber:  strconv.FormatUint(uint64(sn), 10),
		TXTKeyStatusFlags:  strconv.FormatUint(uint64(info.StatusFlags), 10),
		TXTKeyCategory:     strconv.FormatUint(uint64(info.Category), 10),
	}
	if info.SetupHash != "" {
		txt[TXTKeySetupHash] = info.SetupHash
	}
	return txt
}

// DecodeAccessoryTXT parses _hap._tcp TXT records.
func DecodeAccessoryTXT(txt TXTRecordMap) (*AccessoryInfo, error) {
	info := &AccessoryInfo{}
	var ok bool
	if info.DeviceID, ok = txt[TXTKeyDeviceID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDeviceID)
	}
	if info.Model, ok = txt[TXTKeyModel]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyModel)
	}
	info.ProtoVersion = txt[TXTKeyProtoVersion]
	info.SetupHash = txt[TXTKeySetupHash]

	nums := []struct {
		key  string
		bits int
		set  func(uint64)
	}{
		{TXTKeyConfigNumber, 32, func(v uint64) { info.ConfigNumber = uint32(v) }},
		{TXTKeyStateNumber, 32, func(v uint64) { info.StateNumber = uint32(v) }},
		{TXTKeyFeatureFlags, 8, func(v uint64) { info.FeatureFlags = uint8(v) }},
		{TXTKeyStatusFlags, 8, func(v uint64) { info.StatusFlags = uint8(v) }},
		{TXTKeyCategory, 16, func(v uint64) { info.Category = uint16(v) }},
	}
	for _, n := range nums {
		s, ok := txt[n.key]
		if !ok {
			if n.key == TXTKeyConfigNumber || n.key == TXTKeyCategory {
				return nil, fmt.Errorf("%w: %s", ErrMissingRequired, n.key)
			}
			continue
		}
		v, err := strconv.ParseUint(s, 10, n.bits)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, n.key, s)
		}
		n.set(v)
	}
	return info, nil
}

// EncodeProvisioningTXT creates the _esp_wifi_prov._tcp TXT records.
func EncodeProvisioningTXT(info *ProvisioningInfo) TXTRecordMap {
	return TXTRecordMap{
		TXTKeyTransport:    "softap",
		TXTKeySecurityVer:  strconv.FormatUint(uint64(info.SecurityVer), 10),
		TXTKeySessionPath:  "/prov-session",
		TXTKeyConfigPath:   "/prov-config",
		TXTKeyProtoVerPath: "/proto-ver",
	}
}

// TXTRecordsToStrings converts a TXT record map to key=value strings,
// sorted by key.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	keys := make([]string, 0, len(txt))
	for k := range txt {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := make([]string, 0, len(txt))
	for _, k := range keys {
		v := txt[k]
		if len(v) > maxTXTValueLength {
			v = v[:maxTXTValueLength]
		}
		result = append(result, k+"="+v)
	}
	return result
}

// StringsToTXTRecords parses key=value strings. Entries without '=' are
// boolean attributes with an empty value.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap, len(strs))
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k == "" {
			continue
		}
		txt[k] = v
	}
	return txt
}

// ValidateInstanceName checks a DNS-SD instance name.
func ValidateInstanceName(name string) error {
	if name == "" || len(name) > maxInstanceNameBytes {
		return ErrInvalidInstanceName
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return ErrInvalidInstanceName
		}
	}
	return nil
}
