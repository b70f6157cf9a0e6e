package accessory

import (
	"fmt"
	"sync"
)

// Perm is a characteristic permission bitmap.
type Perm uint8

const (
	// PermRead allows paired reads.
	PermRead Perm = 1 << iota

	// PermWrite allows paired writes.
	PermWrite

	// PermNotify allows event notifications.
	PermNotify

	// PermHidden hides the characteristic from user interfaces.
	PermHidden

	PermReadOnly  = PermRead | PermNotify
	PermReadWrite = PermRead | PermWrite | PermNotify
)

// CanRead reports whether reading is allowed.
func (p Perm) CanRead() bool { return p&PermRead != 0 }

// CanWrite reports whether writing is allowed.
func (p Perm) CanWrite() bool { return p&PermWrite != 0 }

// Strings returns the permissions in accessory database form.
func (p Perm) Strings() []string {
	out := []string{}
	if p&PermRead != 0 {
		out = append(out, "pr")
	}
	if p&PermWrite != 0 {
		out = append(out, "pw")
	}
	if p&PermNotify != 0 {
		out = append(out, "ev")
	}
	if p&PermHidden != 0 {
		out = append(out, "hd")
	}
	return out
}

// Format is the value format of a characteristic.
type Format uint8

const (
	FormatBool Format = iota
	FormatUint8
	FormatUint32
	FormatInt
	FormatFloat
	FormatString
	FormatData
)

// String returns the format name.
func (f Format) String() string {
	names := []string{"bool", "uint8", "uint32", "int", "float", "string", "data"}
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// Characteristic is a single typed value of a service.
type Characteristic struct {
	mu sync.RWMutex

	iid    uint64
	typ    string
	format Format
	perms  Perm
	value  any
}

// NewCharacteristic creates a characteristic. The value is normalized to
// the format.
func NewCharacteristic(typ string, format Format, perms Perm, value any) *Characteristic {
	v, err := normalize(format, value)
	if err != nil {
		panic(fmt.Sprintf("accessory: characteristic %s: %v", typ, err))
	}
	return &Characteristic{typ: typ, format: format, perms: perms, value: v}
}

// IID returns the instance ID assigned when the service was added.
func (c *Characteristic) IID() uint64 { return c.iid }

// Type returns the characteristic type.
func (c *Characteristic) Type() string { return c.typ }

// Format returns the value format.
func (c *Characteristic) Format() Format { return c.format }

// Perms returns the permissions.
func (c *Characteristic) Perms() Perm { return c.perms }

// Value returns the current value.
func (c *Characteristic) Value() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Update sets the value from the device side, bypassing permissions.
func (c *Characteristic) Update(value any) error {
	v, err := normalize(c.format, value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	return nil
}

// normalize converts value to the Go type used for format. JSON numbers
// arrive as float64 and are accepted for every numeric format.
func normalize(format Format, value any) (any, error) {
	switch format {
	case FormatBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case float64:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		case int:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		}
	case FormatUint8, FormatUint32, FormatInt:
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case uint8:
			n = int64(v)
		case uint32:
			n = int64(v)
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
			}
			n = int64(v)
		default:
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidValue, value, format)
		}
		switch {
		case format == FormatUint8 && (n < 0 || n > 0xFF):
			return nil, fmt.Errorf("%w: %d out of uint8 range", ErrInvalidValue, n)
		case format == FormatUint32 && (n < 0 || n > 0xFFFFFFFF):
			return nil, fmt.Errorf("%w: %d out of uint32 range", ErrInvalidValue, n)
		}
		return n, nil
	case FormatFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	case FormatString:
		if v, ok := value.(string); ok {
			if len(v) > 64 {
				return nil, fmt.Errorf("%w: string longer than 64 bytes", ErrInvalidValue)
			}
			return v, nil
		}
	case FormatData:
		switch v := value.(type) {
		case []byte:
			return append([]byte(nil), v...), nil
		case string:
			return []byte(v), nil
		}
	}
	return nil, fmt.Errorf("%w: %T for %s", ErrInvalidValue, value, format)
}
