package sampler

// Pacing is the wall-clock time one sampled pixel represents, in
// microseconds. Adjustments use a small step for a discrete key press and a
// larger step for hold-repeats, and are clamped after every change. The
// value is kept signed internally so a large downward step near the minimum
// can never wrap.
type Pacing struct {
	usec int
}

const (
	DefaultUsecPerPixel = 50

	UsecPerPixelMin = 5
	UsecPerPixelMax = 300

	pacingSmallStep = 5
	pacingLargeStep = 25
)

// NewPacing returns the default pacing.
func NewPacing() Pacing {
	return Pacing{usec: DefaultUsecPerPixel}
}

// UsecPerPixel reports the current pacing interval.
func (p *Pacing) UsecPerPixel() uint32 { return uint32(p.usec) }

// Increase slows sampling down by one step (more time per pixel).
func (p *Pacing) Increase(repeat bool) { p.adjust(step(repeat)) }

// Decrease speeds sampling up by one step (less time per pixel).
func (p *Pacing) Decrease(repeat bool) { p.adjust(-step(repeat)) }

func step(repeat bool) int {
	if repeat {
		return pacingLargeStep
	}
	return pacingSmallStep
}

func (p *Pacing) adjust(delta int) {
	p.usec += delta
	if p.usec < UsecPerPixelMin {
		p.usec = UsecPerPixelMin
	} else if p.usec > UsecPerPixelMax {
		p.usec = UsecPerPixelMax
	}
}
