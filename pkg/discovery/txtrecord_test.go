package discovery

import (
	"errors"
	"testing"
)

func TestAccessoryTXTRoundTrip(t *testing.T) {
	info := &AccessoryInfo{
		Name:         "mwe test",
		DeviceID:     "AA:BB:CC:DD:EE:FF",
		Model:        "MWE01",
		ProtoVersion: "1.1.0",
		Category:     7,
		StatusFlags:  StatusFlagNotPaired,
		SetupHash:    "abcd",
	}
	txt := EncodeAccessoryTXT(info)

	if txt[TXTKeyConfigNumber] != "1" || txt[TXTKeyStateNumber] != "1" {
		t.Errorf("zero config/state numbers should encode as 1: %v", txt)
	}
	if txt[TXTKeyCategory] != "7" || txt[TXTKeyStatusFlags] != "1" {
		t.Errorf("unexpected TXT: %v", txt)
	}

	got, err := DecodeAccessoryTXT(StringsToTXTRecords(TXTRecordsToStrings(txt)))
	if err != nil {
		t.Fatalf("DecodeAccessoryTXT: %v", err)
	}
	if got.DeviceID != info.DeviceID || got.Model != info.Model || got.Category != 7 || got.ConfigNumber != 1 {
		t.Errorf("decoded = %+v", got)
	}
	if got.SetupHash != "abcd" {
		t.Errorf("SetupHash = %q", got.SetupHash)
	}
}

func TestDecodeAccessoryTXTErrors(t *testing.T) {
	base := EncodeAccessoryTXT(&AccessoryInfo{DeviceID: "AA:BB:CC:DD:EE:FF", Model: "M", Category: 7})

	tests := []struct {
		name   string
		mutate func(TXTRecordMap)
		want   error
	}{
		{"missing id", func(m TXTRecordMap) { delete(m, TXTKeyDeviceID) }, ErrMissingRequired},
		{"missing category", func(m TXTRecordMap) { delete(m, TXTKeyCategory) }, ErrMissingRequired},
		{"bad flags", func(m TXTRecordMap) { m[TXTKeyStatusFlags] = "300" }, ErrInvalidTXTRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := TXTRecordMap{}
			for k, v := range base {
				txt[k] = v
			}
			tt.mutate(txt)
			if _, err := DecodeAccessoryTXT(txt); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTXTRecordsToStringsSorted(t *testing.T) {
	got := TXTRecordsToStrings(TXTRecordMap{"md": "x", "c#": "1", "id": "y"})
	want := []string{"c#=1", "id=y", "md=x"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	parsed := StringsToTXTRecords([]string{"a=1", "flag", "=skip", "b=x=y"})
	if parsed["a"] != "1" || parsed["b"] != "x=y" {
		t.Errorf("parsed = %v", parsed)
	}
	if _, ok := parsed["flag"]; !ok {
		t.Error("boolean attribute missing")
	}
	if len(parsed) != 3 {
		t.Errorf("len = %d, want 3", len(parsed))
	}
}

func TestProvisioningTXT(t *testing.T) {
	txt := EncodeProvisioningTXT(&ProvisioningInfo{ServiceName: "mwe-wolfssl-crash", SecurityVer: 1})
	if txt[TXTKeySecurityVer] != "1" || txt[TXTKeySessionPath] != "/prov-session" {
		t.Errorf("TXT = %v", txt)
	}
}

func TestValidateInstanceName(t *testing.T) {
	if err := ValidateInstanceName("mwe test"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	for _, bad := range []string{"", string(make([]byte, 64)), "a\x01b"} {
		if err := ValidateInstanceName(bad); !errors.Is(err, ErrInvalidInstanceName) {
			t.Errorf("ValidateInstanceName(%q) = %v", bad, err)
		}
	}
}
