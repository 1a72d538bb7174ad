// Package keys turns raw press/release edges from the input device into the
// gesture events the views consume: presses, releases, auto-repeats while a
// key is held, and short/long press classification on a 1 ms tick base.
package keys

import "sigscope/hal"

type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyOK
	KeyBack
	KeyNext // view switch

	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyOK:
		return "ok"
	case KeyBack:
		return "back"
	case KeyNext:
		return "next"
	}
	return "none"
}

// Kind classifies an event. Press and Release mirror the raw edges; Repeat
// fires periodically while a key stays held; Short and Long report how long
// the key was down, Short on release and Long once the threshold passes.
type Kind int

const (
	Press Kind = iota
	Release
	Repeat
	Short
	Long
)

type Event struct {
	Key  Key
	Kind Kind
}

// Tick thresholds, in milliseconds.
const (
	LongPressTicks   = 500
	RepeatDelayTicks = 400
	RepeatEveryTicks = 150
)

// Tracker holds per-key state. Feed it edges via Edge and time via Tick;
// both return the gesture events produced, in order.
type Tracker struct {
	held      [keyCount]bool
	heldTicks [keyCount]int
	longFired [keyCount]bool
}

func NewTracker() *Tracker { return &Tracker{} }

// Map translates a device key code; KeyNone means the code is not bound.
func Map(code hal.KeyCode) Key {
	switch code {
	case hal.KeyUp:
		return KeyUp
	case hal.KeyDown:
		return KeyDown
	case hal.KeyLeft:
		return KeyLeft
	case hal.KeyRight:
		return KeyRight
	case hal.KeyEnter:
		return KeyOK
	case hal.KeyEscape:
		return KeyBack
	case hal.KeyTab:
		return KeyNext
	}
	return KeyNone
}

// Edge consumes one raw edge. A release before the long threshold yields
// Release followed by Short; after it, just Release (the Long already
// fired from Tick).
func (t *Tracker) Edge(ev hal.KeyEvent) []Event {
	k := Map(ev.Code)
	if k == KeyNone {
		return nil
	}
	if ev.Press {
		if t.held[k] {
			return nil
		}
		t.held[k] = true
		t.heldTicks[k] = 0
		t.longFired[k] = false
		return []Event{{k, Press}}
	}
	if !t.held[k] {
		return nil
	}
	t.held[k] = false
	out := []Event{{k, Release}}
	if !t.longFired[k] {
		out = append(out, Event{k, Short})
	}
	return out
}

// Tick advances held keys by one millisecond.
func (t *Tracker) Tick() []Event {
	var out []Event
	for k := Key(1); k < keyCount; k++ {
		if !t.held[k] {
			continue
		}
		t.heldTicks[k]++
		n := t.heldTicks[k]
		if n >= RepeatDelayTicks && (n-RepeatDelayTicks)%RepeatEveryTicks == 0 {
			out = append(out, Event{k, Repeat})
		}
		if n == LongPressTicks {
			t.longFired[k] = true
			out = append(out, Event{k, Long})
		}
	}
	return out
}
