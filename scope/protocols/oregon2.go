package protocols

import "sigscope/scope/signal"

// Oregon2 decodes Oregon Scientific style v2 temperature sensors:
// Manchester coded at a 500 µs half-bit, a preamble of one bits, a zero
// sync bit, then 32 payload bits MSB first (16-bit sensor id, 4-bit
// channel, 12-bit temperature in deci-°C two's complement) and an 8-bit
// nibble-sum checksum. Receive only: these sensors are not something we
// replay, so the decoder exposes no field schema or encoder.
type Oregon2 struct{}

func NewOregon2() *Oregon2 { return &Oregon2{} }

func (*Oregon2) Name() string { return "Oregon2" }

const (
	oregonHalf = 500 // half-bit period, µs
	oregonTol  = 35  // percent
)

func (o *Oregon2) Decode(sig *signal.RawSignal) (*signal.Message, bool) {
	for _, half := range oregonHalves(sig.Pulses()) {
		for phase := 0; phase < 2; phase++ {
			payload, ok := oregonFrame(manchesterBits(half, phase))
			if !ok {
				continue
			}

			fs := signal.NewFieldSet()
			fs.AddUint("sensor_id", 16, uint64(payload>>16))
			fs.AddUint("channel", 4, uint64(payload>>12&0xF))
			temp := int64(payload & 0xFFF)
			if temp >= 1<<11 {
				temp -= 1 << 12
			}
			fs.AddInt("temp_decic", 12, temp)
			return &signal.Message{Protocol: o.Name(), Fields: fs}, true
		}
	}
	return nil, false
}

// oregonHalves splits the pulse train into runs of half-bit levels. A pulse
// near one half period contributes one entry, near two periods contributes
// two; anything else terminates the run. Runs too short to hold a frame are
// dropped.
func oregonHalves(pulses []signal.Pulse) [][]bool {
	var runs [][]bool
	var cur []bool
	flush := func() {
		if len(cur) >= (12+1+40)*2 {
			runs = append(runs, cur)
		}
		cur = nil
	}
	for _, p := range pulses {
		switch {
		case oregonNear(p.Dur, oregonHalf):
			cur = append(cur, p.Level)
		case oregonNear(p.Dur, 2*oregonHalf):
			cur = append(cur, p.Level, p.Level)
		default:
			flush()
		}
	}
	flush()
	return runs
}

func oregonNear(dur, nominal uint32) bool {
	d := nominal * oregonTol / 100
	return dur >= nominal-d && dur <= nominal+d
}

// manchesterBits pairs half-bits starting at phase; (high,low) is a one,
// (low,high) a zero. The first equal pair ends the stream.
func manchesterBits(half []bool, phase int) []bool {
	var out []bool
	for i := phase; i+1 < len(half); i += 2 {
		if half[i] == half[i+1] {
			break
		}
		out = append(out, half[i])
	}
	return out
}

// oregonFrame finds a preamble of at least 12 one bits followed by a zero
// sync bit, then checks the trailing nibble-sum over the 32 payload bits.
func oregonFrame(b []bool) (payload uint32, ok bool) {
	ones := 0
	for i, bit := range b {
		if bit {
			ones++
			continue
		}
		if ones >= 12 && len(b)-i-1 >= 40 {
			var word uint64
			for _, d := range b[i+1 : i+41] {
				word <<= 1
				if d {
					word |= 1
				}
			}
			payload = uint32(word >> 8)
			var sum uint32
			for n := 0; n < 8; n++ {
				sum += payload >> uint(n*4) & 0xF
			}
			if sum&0xFF == uint32(word&0xFF) {
				return payload, true
			}
		}
		ones = 0
	}
	return 0, false
}
