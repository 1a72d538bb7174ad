package signal

import "sigscope/hal"

// Pulse is re-exported so decoders do not need to import the hal package.
type Pulse = hal.Pulse

// RawSignal is an ordered pulse train: the interchange form between capture,
// decoders and the transmitter. Appending coalesces same-level pulses, so the
// train always alternates levels.
type RawSignal struct {
	pulses []hal.Pulse
}

// NewRawSignal returns an empty signal with room for n pulses.
func NewRawSignal(n int) *RawSignal {
	if n < 0 {
		n = 0
	}
	return &RawSignal{pulses: make([]hal.Pulse, 0, n)}
}

// Append adds one level period. A zero duration is dropped.
func (s *RawSignal) Append(level bool, durUs uint32) {
	if durUs == 0 {
		return
	}
	if n := len(s.pulses); n > 0 && s.pulses[n-1].Level == level {
		s.pulses[n-1].Dur += durUs
		return
	}
	s.pulses = append(s.pulses, hal.Pulse{Level: level, Dur: durUs})
}

func (s *RawSignal) Len() int { return len(s.pulses) }

// At returns pulse i; i must be in [0, Len()).
func (s *RawSignal) At(i int) hal.Pulse { return s.pulses[i] }

// Pulses exposes the backing pulse slice. Callers must not retain it across
// a Reset.
func (s *RawSignal) Pulses() []hal.Pulse { return s.pulses }

// Reset drops all pulses, keeping capacity.
func (s *RawSignal) Reset() { s.pulses = s.pulses[:0] }

// Duration reports the summed pulse time in microseconds.
func (s *RawSignal) Duration() uint64 {
	var total uint64
	for _, p := range s.pulses {
		total += uint64(p.Dur)
	}
	return total
}
