package discovery

import (
	"errors"
	"strings"
	"testing"
)

func TestSetupPayloadRoundTrip(t *testing.T) {
	p, err := NewSetupPayload(7, "111-22-333", "ES32")
	if err != nil {
		t.Fatalf("NewSetupPayload: %v", err)
	}
	s := p.String()
	if !strings.HasPrefix(s, SetupPayloadPrefix) || len(s) != len(SetupPayloadPrefix)+13 {
		t.Fatalf("payload = %q", s)
	}
	if !strings.HasSuffix(s, "ES32") {
		t.Errorf("payload %q must end with setup id", s)
	}

	got, err := ParseSetupPayload(s)
	if err != nil {
		t.Fatalf("ParseSetupPayload: %v", err)
	}
	if *got != *p {
		t.Errorf("parsed = %+v, want %+v", got, p)
	}
}

func TestSetupPayloadErrors(t *testing.T) {
	if _, err := NewSetupPayload(7, "11122333", "ES32"); !errors.Is(err, ErrInvalidSetupCode) {
		t.Errorf("bad code: %v", err)
	}
	if _, err := NewSetupPayload(7, "111-22-333", "es"); !errors.Is(err, ErrInvalidSetupID) {
		t.Errorf("bad id: %v", err)
	}
	if _, err := ParseSetupPayload("WIFI:1:2"); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("bad prefix: %v", err)
	}
	if _, err := ParseSetupPayload(SetupPayloadPrefix + "0"); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("bad length: %v", err)
	}
}

func TestFormatSetupCode(t *testing.T) {
	if got := FormatSetupCode(1234567); got != "012-34-567" {
		t.Errorf("FormatSetupCode = %q", got)
	}
	v, err := ParseSetupCode("012-34-567")
	if err != nil || v != 1234567 {
		t.Errorf("ParseSetupCode = %d, %v", v, err)
	}
}

func TestDeviceIDFromSerial(t *testing.T) {
	a := DeviceIDFromSerial("001122334455")
	b := DeviceIDFromSerial("001122334455")
	if a != b {
		t.Error("device id must be stable")
	}
	if len(a) != 17 || strings.Count(a, ":") != 5 {
		t.Errorf("device id %q not in XX:XX:XX:XX:XX:XX form", a)
	}
	if DeviceIDFromSerial("other") == a {
		t.Error("different serials should differ")
	}
	if h := SetupHash("ES32", a); len(h) != 8 {
		t.Errorf("setup hash %q should be 8 base64 chars", h)
	}
}
