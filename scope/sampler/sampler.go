package sampler

import (
	"sigscope/hal"
	"sigscope/scope/signal"
)

// Sampler polls a digital line once per pacing interval and packs the
// levels into a bitmap.
type Sampler struct {
	line func() bool
	cyc  hal.Cycles
}

// New returns a sampler reading levels from line and pacing on cyc.
func New(line func() bool, cyc hal.Cycles) *Sampler {
	return &Sampler{line: line, cyc: cyc}
}

// Capture fills dst with one level sample per bit, each bit representing
// usecPerPixel microseconds of wall-clock time.
//
// This is a hard real-time spin loop: between samples it busy-waits on the
// cycle counter instead of yielding, and nothing inside the loop allocates,
// logs, or blocks. The spin bound is recomputed from the current
// cycles-per-microsecond figure every tick, so pacing tracks dynamic clock
// changes. The caller must own the line exclusively for the duration (see
// scope/rxtx); a failed line read is indistinguishable from a level, since
// the capture is best-effort diagnostics, not a validated decode path.
func (s *Sampler) Capture(dst *signal.Bitmap, usecPerPixel uint32) {
	n := dst.Bits()
	for j := 0; j < n; j++ {
		start := s.cyc.Count()
		dst.Set(j, s.line())
		period := s.cyc.PerMicrosecond() * usecPerPixel
		for s.cyc.Count()-start < period {
		}
	}
}
