package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	var err error

	// Deterministic output with nanosecond timestamps.
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for trace events that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for trace events that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
