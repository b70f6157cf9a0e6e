package accessory

import (
	"errors"
	"fmt"
)

// Well-known service types (short form).
const (
	ServiceAccessoryInformation = "3E"
	ServiceProtocolInformation  = "A2"
	ServiceOutlet               = "47"
	ServiceSwitch               = "49"
)

// Well-known characteristic types (short form).
const (
	CharIdentify         = "14"
	CharManufacturer     = "20"
	CharModel            = "21"
	CharName             = "23"
	CharOn               = "25"
	CharOutletInUse      = "26"
	CharSerialNumber     = "30"
	CharVersion          = "37"
	CharFirmwareRevision = "52"
	CharHardwareRevision = "53"
	CharProductData      = "220"
)

// Status is the result of a callback or a single write.
type Status int

// Status codes.
const (
	StatusSuccess            Status = 0
	StatusInsufficientPrivs  Status = -70401
	StatusCommunicationError Status = -70402
	StatusBusy               Status = -70403
	StatusReadOnly           Status = -70404
	StatusWriteOnly          Status = -70405
	StatusResourceAbsent     Status = -70409
	StatusInvalidValue       Status = -70410
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInsufficientPrivs:
		return "INSUFFICIENT_PRIVILEGES"
	case StatusCommunicationError:
		return "COMMUNICATION_ERROR"
	case StatusBusy:
		return "BUSY"
	case StatusReadOnly:
		return "READ_ONLY"
	case StatusWriteOnly:
		return "WRITE_ONLY"
	case StatusResourceAbsent:
		return "RESOURCE_ABSENT"
	case StatusInvalidValue:
		return "INVALID_VALUE"
	default:
		return fmt.Sprintf("STATUS(%d)", int(s))
	}
}

// Model errors.
var (
	ErrInvalidValue     = errors.New("invalid characteristic value")
	ErrNotFound         = errors.New("not found")
	ErrServiceAttached  = errors.New("service already attached")
	ErrDuplicateService = errors.New("duplicate service type")
)

// WriteOp is one characteristic write passed to a service write callback.
type WriteOp struct {
	Characteristic *Characteristic
	Value          any

	// Status is set by the callback for per-write failures.
	Status Status
}

// WriteFunc handles writes to the characteristics of one service. The
// values are applied when it returns StatusSuccess, except for writes whose
// Status it set to a failure. writeCtx is the opaque context of the
// request.
type WriteFunc func(writes []WriteOp, svc *Service, writeCtx any) Status

// Service groups characteristics.
type Service struct {
	iid      uint64
	typ      string
	primary  bool
	chars    []*Characteristic
	write    WriteFunc
	attached bool
}

// NewService creates a service of the given type.
func NewService(typ string) *Service {
	return &Service{typ: typ}
}

// NewOutletService creates an outlet service with On and OutletInUse.
func NewOutletService(on, inUse bool) *Service {
	s := NewService(ServiceOutlet)
	s.AddCharacteristic(NewCharacteristic(CharOn, FormatBool, PermReadWrite, on))
	s.AddCharacteristic(NewCharacteristic(CharOutletInUse, FormatBool, PermReadOnly, inUse))
	return s
}

// NewNameCharacteristic creates a read-only Name characteristic.
func NewNameCharacteristic(name string) *Characteristic {
	return NewCharacteristic(CharName, FormatString, PermRead, name)
}

// AddCharacteristic appends a characteristic. It must be called before the
// service is added to an accessory.
func (s *Service) AddCharacteristic(c *Characteristic) *Service {
	s.chars = append(s.chars, c)
	return s
}

// SetWriteFunc sets the write callback.
func (s *Service) SetWriteFunc(fn WriteFunc) *Service {
	s.write = fn
	return s
}

// SetPrimary marks the service as the primary service.
func (s *Service) SetPrimary(primary bool) *Service {
	s.primary = primary
	return s
}

// IID returns the instance ID.
func (s *Service) IID() uint64 { return s.iid }

// Type returns the service type.
func (s *Service) Type() string { return s.typ }

// Primary reports whether the service is primary.
func (s *Service) Primary() bool { return s.primary }

// Characteristics returns the characteristics in instance ID order.
func (s *Service) Characteristics() []*Characteristic {
	return append([]*Characteristic(nil), s.chars...)
}

// Characteristic returns the characteristic of the given type.
func (s *Service) Characteristic(typ string) (*Characteristic, error) {
	for _, c := range s.chars {
		if c.typ == typ {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: characteristic %s", ErrNotFound, typ)
}
