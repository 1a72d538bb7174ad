package signal

import "fmt"

// Decoder identifies a protocol implementation. Optional capabilities are
// expressed as further interfaces and checked by type assertion before use:
// SignalDecoder for recognizing captures, MessageBuilder for building and
// encoding messages.
type Decoder interface {
	Name() string
}

// SignalDecoder recognizes captured pulse trains.
//
// A false return means the signal is not this protocol: a normal outcome,
// not an error.
type SignalDecoder interface {
	Decoder
	Decode(sig *RawSignal) (*Message, bool)
}

// MessageBuilder exposes an editable field schema and serializes it back
// into a transmittable pulse train.
type MessageBuilder interface {
	Decoder

	// Fields populates fs with this protocol's ordered field schema and
	// default values.
	Fields(fs *FieldSet)

	// Encode serializes the field values into a raw signal.
	Encode(fs *FieldSet) (*RawSignal, error)
}

// Message is a decoded protocol message.
type Message struct {
	Protocol string
	Fields   *FieldSet
}

// Registry is the finite, statically ordered decoder list. Construction
// guarantees at least one MessageBuilder entry, so the cyclic builder
// traversals always terminate.
type Registry struct {
	decoders []Decoder
	builders int
}

// NewRegistry validates and wraps an ordered decoder list.
func NewRegistry(decoders ...Decoder) (*Registry, error) {
	if len(decoders) == 0 {
		return nil, fmt.Errorf("signal: empty decoder registry")
	}
	builders := 0
	for _, d := range decoders {
		if d == nil {
			return nil, fmt.Errorf("signal: nil decoder in registry")
		}
		if IsBuilder(d) {
			builders++
		}
	}
	if builders == 0 {
		return nil, fmt.Errorf("signal: registry has no message builders")
	}
	return &Registry{decoders: decoders, builders: builders}, nil
}

// IsBuilder reports whether d supports message building.
func IsBuilder(d Decoder) bool {
	_, ok := d.(MessageBuilder)
	return ok
}

func (r *Registry) Len() int { return len(r.decoders) }

// Builders reports how many entries support message building.
func (r *Registry) Builders() int { return r.builders }

// At returns decoder i, or nil if i is out of range.
func (r *Registry) At(i int) Decoder {
	if i < 0 || i >= len(r.decoders) {
		return nil
	}
	return r.decoders[i]
}

// FirstBuilder returns the lowest index with building capability.
func (r *Registry) FirstBuilder() int {
	for i, d := range r.decoders {
		if IsBuilder(d) {
			return i
		}
	}
	// Unreachable: construction guarantees a builder.
	return 0
}

// NextBuilder returns the next index after i (wrapping) whose decoder
// supports building. Entries without the capability are skipped.
func (r *Registry) NextBuilder(i int) int {
	for {
		i++
		if i >= len(r.decoders) {
			i = 0
		}
		if IsBuilder(r.decoders[i]) {
			return i
		}
	}
}

// PrevBuilder is NextBuilder walking backward, wrapping from first to last.
func (r *Registry) PrevBuilder(i int) int {
	for {
		i--
		if i < 0 {
			i = len(r.decoders) - 1
		}
		if IsBuilder(r.decoders[i]) {
			return i
		}
	}
}

// TryDecode offers the signal to each decoding-capable entry in registry
// order; the first match wins.
func (r *Registry) TryDecode(sig *RawSignal) (*Message, bool) {
	for _, d := range r.decoders {
		sd, ok := d.(SignalDecoder)
		if !ok {
			continue
		}
		if msg, ok := sd.Decode(sig); ok {
			return msg, true
		}
	}
	return nil, false
}
