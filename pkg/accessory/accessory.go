package accessory

import (
	"fmt"
	"strings"
	"sync"
)

// Category is the accessory category identifier.
type Category uint16

// Accessory categories.
const (
	CategoryOther     Category = 1
	CategoryBridge    Category = 2
	CategoryFan       Category = 3
	CategoryLightbulb Category = 5
	CategoryOutlet    Category = 7
	CategorySwitch    Category = 8
	CategorySensor    Category = 10
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryOther:
		return "OTHER"
	case CategoryBridge:
		return "BRIDGE"
	case CategoryFan:
		return "FAN"
	case CategoryLightbulb:
		return "LIGHTBULB"
	case CategoryOutlet:
		return "OUTLET"
	case CategorySwitch:
		return "SWITCH"
	case CategorySensor:
		return "SENSOR"
	default:
		return fmt.Sprintf("CATEGORY(%d)", uint16(c))
	}
}

// ParseCategory parses a category name as returned by String, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range []Category{CategoryOther, CategoryBridge, CategoryFan, CategoryLightbulb, CategoryOutlet, CategorySwitch, CategorySensor} {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown accessory category %q", s)
}

// Info is the fixed identity metadata of an accessory.
type Info struct {
	Name             string
	Model            string
	Manufacturer     string
	SerialNumber     string
	FirmwareRevision string
	HardwareRevision string // optional
	ProtocolVersion  string
	Category         Category
	ProductData      []byte // optional, 8 bytes
}

// Validate checks the mandatory fields.
func (i Info) Validate() error {
	required := []struct{ name, value string }{
		{"name", i.Name},
		{"model", i.Model},
		{"manufacturer", i.Manufacturer},
		{"serial number", i.SerialNumber},
		{"firmware revision", i.FirmwareRevision},
		{"protocol version", i.ProtocolVersion},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("accessory info: missing %s", f.name)
		}
	}
	if i.Category == 0 {
		return fmt.Errorf("accessory info: missing category")
	}
	if len(i.ProductData) != 0 && len(i.ProductData) != 8 {
		return fmt.Errorf("accessory info: product data must be 8 bytes, got %d", len(i.ProductData))
	}
	return nil
}

// IdentifyFunc is called when a controller asks the accessory to identify
// itself.
type IdentifyFunc func(a *Accessory) Status

// Accessory is a single accessory with its services.
type Accessory struct {
	mu sync.RWMutex

	aid      uint64
	info     Info
	identify IdentifyFunc
	services []*Service
	nextIID  uint64
}

// NewAccessory creates an accessory with the Accessory Information and
// Protocol Information services.
func NewAccessory(info Info, identify IdentifyFunc) *Accessory {
	a := &Accessory{aid: 1, info: info, identify: identify, nextIID: 1}

	ai := NewService(ServiceAccessoryInformation)
	ai.AddCharacteristic(NewCharacteristic(CharIdentify, FormatBool, PermWrite, false))
	ai.AddCharacteristic(NewCharacteristic(CharManufacturer, FormatString, PermRead, info.Manufacturer))
	ai.AddCharacteristic(NewCharacteristic(CharModel, FormatString, PermRead, info.Model))
	ai.AddCharacteristic(NewNameCharacteristic(info.Name))
	ai.AddCharacteristic(NewCharacteristic(CharSerialNumber, FormatString, PermRead, info.SerialNumber))
	ai.AddCharacteristic(NewCharacteristic(CharFirmwareRevision, FormatString, PermRead, info.FirmwareRevision))
	if info.HardwareRevision != "" {
		ai.AddCharacteristic(NewCharacteristic(CharHardwareRevision, FormatString, PermRead, info.HardwareRevision))
	}
	if len(info.ProductData) > 0 {
		ai.AddCharacteristic(NewCharacteristic(CharProductData, FormatData, PermRead, info.ProductData))
	}
	ai.SetWriteFunc(a.handleIdentifyWrite)
	_ = a.AddService(ai)

	pi := NewService(ServiceProtocolInformation)
	pi.AddCharacteristic(NewCharacteristic(CharVersion, FormatString, PermRead, info.ProtocolVersion))
	_ = a.AddService(pi)
	return a
}

// AID returns the accessory instance ID.
func (a *Accessory) AID() uint64 { return a.aid }

// Info returns the identity metadata.
func (a *Accessory) Info() Info { return a.info }

// AddService attaches svc and assigns instance IDs to it and its
// characteristics.
func (a *Accessory) AddService(svc *Service) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if svc.attached {
		return ErrServiceAttached
	}
	for _, s := range a.services {
		if s.typ == svc.typ && s.typ != ServiceOutlet && s.typ != ServiceSwitch {
			return fmt.Errorf("%w: %s", ErrDuplicateService, svc.typ)
		}
	}
	svc.iid = a.nextIID
	a.nextIID++
	for _, c := range svc.chars {
		c.iid = a.nextIID
		a.nextIID++
	}
	svc.attached = true
	a.services = append(a.services, svc)
	return nil
}

// Services returns the attached services.
func (a *Accessory) Services() []*Service {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Service(nil), a.services...)
}

// Service returns the first service of the given type.
func (a *Accessory) Service(typ string) (*Service, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.services {
		if s.typ == typ {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: service %s", ErrNotFound, typ)
}

// Lookup finds a characteristic and its service by instance ID.
func (a *Accessory) Lookup(iid uint64) (*Service, *Characteristic, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.services {
		for _, c := range s.chars {
			if c.iid == iid {
				return s, c, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: iid %d", ErrNotFound, iid)
}

// Identify runs the identify routine.
func (a *Accessory) Identify() Status {
	if a.identify == nil {
		return StatusSuccess
	}
	return a.identify(a)
}

func (a *Accessory) handleIdentifyWrite(writes []WriteOp, _ *Service, _ any) Status {
	for i := range writes {
		if writes[i].Characteristic.typ == CharIdentify {
			if v, _ := writes[i].Value.(bool); v {
				writes[i].Status = a.Identify()
			}
		}
	}
	return StatusSuccess
}

// WriteRequest addresses one characteristic write.
type WriteRequest struct {
	IID   uint64
	Value any
}

// Write applies writes, grouped per service, through the services' write
// callbacks. It returns one status per request, in request order.
func (a *Accessory) Write(reqs []WriteRequest, writeCtx any) []Status {
	statuses := make([]Status, len(reqs))

	type pending struct {
		svc  *Service
		ops  []WriteOp
		idxs []int
	}
	var order []*pending
	bySvc := map[*Service]*pending{}

	for i, r := range reqs {
		svc, c, err := a.Lookup(r.IID)
		if err != nil {
			statuses[i] = StatusResourceAbsent
			continue
		}
		if !c.perms.CanWrite() {
			statuses[i] = StatusReadOnly
			continue
		}
		v, err := normalize(c.format, r.Value)
		if err != nil {
			statuses[i] = StatusInvalidValue
			continue
		}
		p := bySvc[svc]
		if p == nil {
			p = &pending{svc: svc}
			bySvc[svc] = p
			order = append(order, p)
		}
		p.ops = append(p.ops, WriteOp{Characteristic: c, Value: v})
		p.idxs = append(p.idxs, i)
	}

	for _, p := range order {
		result := StatusSuccess
		if p.svc.write != nil {
			result = p.svc.write(p.ops, p.svc, writeCtx)
		}
		for j, op := range p.ops {
			st := result
			if st == StatusSuccess && op.Status != StatusSuccess {
				st = op.Status
			}
			if st == StatusSuccess && op.Characteristic.typ != CharIdentify {
				_ = op.Characteristic.Update(op.Value)
			}
			statuses[p.idxs[j]] = st
		}
	}
	return statuses
}
