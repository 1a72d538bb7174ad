// Package protocols holds the concrete protocol decoders and the default
// registry. Decoders express their capabilities through the optional
// interfaces in scope/signal: Princeton and Hexbug decode, expose field
// schemas and encode; Oregon2 only decodes.
package protocols

import (
	"fmt"

	"sigscope/scope/signal"
)

// Princeton implements PT2262-style 24-bit fixed-code OOK remotes: a sync
// pulse (short high, 31x short low) followed by 24 bits MSB first, where a
// zero is short-high/long-low and a one is long-high/short-low, long being
// three times the short period.
type Princeton struct{}

func NewPrinceton() *Princeton { return &Princeton{} }

func (*Princeton) Name() string { return "Princeton" }

const (
	princetonTe   = 350 // nominal short period, µs
	princetonBits = 24
)

func (*Princeton) Fields(fs *signal.FieldSet) {
	fs.AddUint("address", 20, 0)
	fs.AddUint("command", 4, 0)
}

func (p *Princeton) Encode(fs *signal.FieldSet) (*signal.RawSignal, error) {
	addr := fs.ByName("address")
	cmd := fs.ByName("command")
	if addr == nil || cmd == nil {
		return nil, fmt.Errorf("protocols: princeton: missing address/command fields")
	}
	code := uint32(addr.Uint())<<4 | uint32(cmd.Uint())

	sig := signal.NewRawSignal(2 + princetonBits*2)
	sig.Append(true, princetonTe)
	sig.Append(false, princetonTe*31)
	for i := princetonBits - 1; i >= 0; i-- {
		if code&(1<<uint(i)) != 0 {
			sig.Append(true, princetonTe*3)
			sig.Append(false, princetonTe)
		} else {
			sig.Append(true, princetonTe)
			sig.Append(false, princetonTe*3)
		}
	}
	return sig, nil
}

func (p *Princeton) Decode(sig *signal.RawSignal) (*signal.Message, bool) {
	pulses := sig.Pulses()
	for i := 0; i+1+princetonBits*2 <= len(pulses); i++ {
		te, ok := princetonSync(pulses[i], pulses[i+1])
		if !ok {
			continue
		}
		code, ok := princetonWord(pulses[i+2:], te)
		if !ok {
			continue
		}

		fs := signal.NewFieldSet()
		p.Fields(fs)
		// The widths above bound these values by construction.
		fs.ByName("address").SetUint(uint64(code >> 4))
		fs.ByName("command").SetUint(uint64(code & 0xF))
		return &signal.Message{Protocol: p.Name(), Fields: fs}, true
	}
	return nil, false
}

// princetonSync recognizes the sync pair and estimates the short period
// from its high pulse.
func princetonSync(hi, lo signal.Pulse) (te uint32, ok bool) {
	if !hi.Level || lo.Level {
		return 0, false
	}
	te = hi.Dur
	if te < princetonTe/2 || te > princetonTe*2 {
		return 0, false
	}
	ratio := lo.Dur / te
	if ratio < 25 || ratio > 40 {
		return 0, false
	}
	return te, true
}

// princetonWord reads 24 bit pairs. Bits are classified on the high pulse
// only, so a final low merged into the inter-frame gap does not spoil the
// frame.
func princetonWord(pulses []signal.Pulse, te uint32) (code uint32, ok bool) {
	if len(pulses) < princetonBits*2-1 {
		return 0, false
	}
	for b := 0; b < princetonBits; b++ {
		hi := pulses[b*2]
		if !hi.Level {
			return 0, false
		}
		if hi.Dur < te/2 || hi.Dur > te*4 {
			return 0, false
		}
		code <<= 1
		if hi.Dur >= te*2 {
			code |= 1
		}
		if b < princetonBits-1 {
			lo := pulses[b*2+1]
			if lo.Level || lo.Dur < te/2 {
				return 0, false
			}
		}
	}
	return code, true
}
