//go:build !tinygo

package hal

import "time"

// hostTime emits one tick per elapsed millisecond of wall time. The frame
// loop calls step once per frame; leftover sub-millisecond time carries over
// so the long-run tick rate stays true regardless of the frame rate.
type hostTime struct {
	ch    chan uint64
	count uint64

	prev    time.Time
	carry   time.Duration
	started bool
}

const hostTickDur = time.Millisecond

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(min uint64) {
	now := time.Now()
	n := min
	if t.started {
		t.carry += now.Sub(t.prev)
		n = uint64(t.carry / hostTickDur)
		t.carry -= time.Duration(n) * hostTickDur
	}
	t.prev = now
	t.started = true

	for i := uint64(0); i < n; i++ {
		t.count++
		// Consumers that fall behind lose ticks rather than block the
		// frame loop.
		select {
		case t.ch <- t.count:
		default:
		}
	}
}
