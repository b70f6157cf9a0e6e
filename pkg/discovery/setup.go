package discovery

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// SetupPayloadPrefix is the URI scheme of the pairing payload.
const SetupPayloadPrefix = "X-HM://"

// Setup payload flags.
const (
	SetupFlagNFC uint8 = 1 << 0
	SetupFlagIP  uint8 = 1 << 1
	SetupFlagBLE uint8 = 1 << 2
)

// SetupPayload is the pairing payload shown as QR code.
type SetupPayload struct {
	Category  uint16
	Flags     uint8
	SetupCode string // XXX-XX-XXX
	SetupID   string // 4 alphanumeric characters
}

// ParseSetupPayload parses an X-HM:// payload.
func ParseSetupPayload(content string) (*SetupPayload, error) {
	if !strings.HasPrefix(content, SetupPayloadPrefix) {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrInvalidPayload, SetupPayloadPrefix)
	}
	body := strings.TrimPrefix(content, SetupPayloadPrefix)
	if len(body) != 13 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPayload, len(body))
	}
	v, err := strconv.ParseUint(body[:9], 36, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	id := body[9:]
	if err := validateSetupID(id); err != nil {
		return nil, err
	}
	code := uint32(v & 0x7ffffff)
	return &SetupPayload{
		Category:  uint16((v >> 31) & 0xff),
		Flags:     uint8((v >> 27) & 0xf),
		SetupCode: FormatSetupCode(code),
		SetupID:   id,
	}, nil
}

// NewSetupPayload validates and builds a payload for an IP accessory.
func NewSetupPayload(category uint16, setupCode, setupID string) (*SetupPayload, error) {
	if _, err := ParseSetupCode(setupCode); err != nil {
		return nil, err
	}
	if err := validateSetupID(setupID); err != nil {
		return nil, err
	}
	return &SetupPayload{
		Category:  category,
		Flags:     SetupFlagIP,
		SetupCode: setupCode,
		SetupID:   setupID,
	}, nil
}

// String returns the X-HM:// encoding.
func (p *SetupPayload) String() string {
	code, _ := ParseSetupCode(p.SetupCode)
	v := uint64(code) | uint64(p.Flags&0xf)<<27 | uint64(p.Category&0xff)<<31
	digits := strings.ToUpper(strconv.FormatUint(v, 36))
	return SetupPayloadPrefix + strings.Repeat("0", 9-len(digits)) + digits + p.SetupID
}

// FormatSetupCode formats an 8-digit code as XXX-XX-XXX.
func FormatSetupCode(code uint32) string {
	s := fmt.Sprintf("%08d", code)
	return s[:3] + "-" + s[3:5] + "-" + s[5:]
}

// ParseSetupCode parses XXX-XX-XXX into its numeric value.
func ParseSetupCode(s string) (uint32, error) {
	if len(s) != 10 || s[3] != '-' || s[6] != '-' {
		return 0, ErrInvalidSetupCode
	}
	digits := s[:3] + s[4:6] + s[7:]
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, ErrInvalidSetupCode
	}
	return uint32(v), nil
}

// SetupHash returns the sh TXT value for setupID and deviceID.
func SetupHash(setupID, deviceID string) string {
	sum := sha512.Sum512([]byte(setupID + deviceID))
	return base64.StdEncoding.EncodeToString(sum[:4])
}

// DeviceIDFromSerial derives a stable XX:XX:XX:XX:XX:XX device ID from the
// accessory serial number.
func DeviceIDFromSerial(serial string) string {
	sum := sha256.Sum256([]byte(serial))
	// Locally administered, unicast.
	sum[0] = (sum[0] | 0x02) &^ 0x01
	parts := make([]string, 6)
	for i := range parts {
		parts[i] = fmt.Sprintf("%02X", sum[i])
	}
	return strings.Join(parts, ":")
}

func validateSetupID(id string) error {
	if len(id) != 4 {
		return ErrInvalidSetupID
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z') {
			return ErrInvalidSetupID
		}
	}
	return nil
}
