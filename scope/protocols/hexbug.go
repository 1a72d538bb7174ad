package protocols

import (
	"fmt"
	"math/bits"

	"sigscope/scope/signal"
)

// Hexbug implements the 9-bit IR protocol used by Hexbug battle robots.
// The carrier is keyed low during mark periods; a frame is a long low start
// flag followed by nine bits LSB first, each a short high spacer and then a
// low whose length selects the bit value. Bit order on the wire is
// F B L R D U C C P: six button bits, two channel bits and an odd parity
// bit over the whole frame.
type Hexbug struct{}

func NewHexbug() *Hexbug { return &Hexbug{} }

func (*Hexbug) Name() string { return "Hexbug" }

const (
	hexbugSpacer = 350  // high gap between marks, µs
	hexbugZero   = 350  // mark for a 0 bit, µs
	hexbugOne    = 1000 // mark for a 1 bit, µs
	hexbugStart  = 1700 // start flag mark, µs

	// Classification thresholds for received marks.
	hexbugOneMin   = 750
	hexbugStartMin = 1400
)

// Channel bit values in transmission order; channels 3 and 4 are swapped
// on the wire.
var hexbugChannels = [4]uint16{0, 1, 3, 2}

func (*Hexbug) Fields(fs *signal.FieldSet) {
	fs.AddUint("buttons", 6, 0)
	fs.AddEnum("channel", []string{"1", "2", "3", "4"}, 0)
}

func (h *Hexbug) Encode(fs *signal.FieldSet) (*signal.RawSignal, error) {
	buttons := fs.ByName("buttons")
	channel := fs.ByName("channel")
	if buttons == nil || channel == nil {
		return nil, fmt.Errorf("protocols: hexbug: missing buttons/channel fields")
	}

	word := uint16(buttons.Uint()) | hexbugChannels[channel.Choice()]<<6
	if bits.OnesCount16(word)%2 == 0 {
		word |= 1 << 8 // odd parity over all nine bits
	}

	sig := signal.NewRawSignal(2 + 9*2)
	sig.Append(false, hexbugStart)
	for i := 0; i < 9; i++ {
		sig.Append(true, hexbugSpacer)
		if word&(1<<uint(i)) != 0 {
			sig.Append(false, hexbugOne)
		} else {
			sig.Append(false, hexbugZero)
		}
	}
	return sig, nil
}

func (h *Hexbug) Decode(sig *signal.RawSignal) (*signal.Message, bool) {
	pulses := sig.Pulses()
	for i := 0; i < len(pulses); i++ {
		p := pulses[i]
		if p.Level || p.Dur < hexbugStartMin {
			continue
		}
		word, ok := hexbugWord(pulses[i+1:])
		if !ok {
			continue
		}
		if bits.OnesCount16(word)%2 != 1 {
			continue // parity must be odd
		}

		ch := -1
		for c, v := range hexbugChannels {
			if v == word>>6&0x3 {
				ch = c
			}
		}
		if ch < 0 {
			continue
		}

		fs := signal.NewFieldSet()
		h.Fields(fs)
		fs.ByName("buttons").SetUint(uint64(word & 0x3F))
		fs.ByName("channel").SetChoice(ch)
		return &signal.Message{Protocol: h.Name(), Fields: fs}, true
	}
	return nil, false
}

// hexbugWord reads nine spacer/mark pairs following a start flag. Marks
// classify as 0 below hexbugOneMin and 1 below hexbugStartMin; anything
// longer aborts the frame.
func hexbugWord(pulses []signal.Pulse) (word uint16, ok bool) {
	if len(pulses) < 9*2 {
		return 0, false
	}
	for b := 0; b < 9; b++ {
		spacer, mark := pulses[b*2], pulses[b*2+1]
		if !spacer.Level || spacer.Dur > hexbugOneMin {
			return 0, false
		}
		if mark.Level || mark.Dur >= hexbugStartMin {
			return 0, false
		}
		if mark.Dur >= hexbugOneMin {
			word |= 1 << uint(b)
		}
	}
	return word, true
}
