//go:build linux && periph

package hal

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// lineRadio reads the radio receive line from a real GPIO (a receiver
// module's data pin wired to an SBC header). Transceiver mode switches are
// not available at this level: SetRx/SetIdle only gate ReadLine, and the
// asynchronous path is emulated by edge-timestamp polling.
type lineRadio struct {
	mu     sync.Mutex
	logger Logger
	pin    gpio.PinIO

	rx bool

	asyncFn PulseFunc
	stop    chan struct{}
	done    chan struct{}
}

var periphOnce sync.Once
var periphErr error

func newLineRadio(name string, logger Logger) (Radio, error) {
	periphOnce.Do(func() {
		_, periphErr = host.Init()
	})
	if periphErr != nil {
		return nil, fmt.Errorf("periph init: %w", periphErr)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin")
	}
	if err := pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure input: %w", err)
	}
	return &lineRadio{logger: logger, pin: pin}, nil
}

func (r *lineRadio) ReadLine() bool {
	r.mu.Lock()
	rx := r.rx
	r.mu.Unlock()
	if !rx {
		return false
	}
	return r.pin.Read() == gpio.High
}

func (r *lineRadio) ConfigureLineInput() error {
	return r.pin.In(gpio.PullNoChange, gpio.NoEdge)
}

func (r *lineRadio) SetRx() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = true
	return nil
}

func (r *lineRadio) SetIdle() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = false
	return nil
}

func (r *lineRadio) StartAsyncRx(fn PulseFunc) error {
	if fn == nil {
		return fmt.Errorf("radio: nil pulse callback")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.asyncFn != nil {
		return fmt.Errorf("radio: async rx already running")
	}
	r.rx = true
	r.asyncFn = fn
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.watch(fn, r.stop, r.done)
	return nil
}

func (r *lineRadio) StopAsyncRx() error {
	r.mu.Lock()
	if r.asyncFn == nil {
		r.mu.Unlock()
		return nil
	}
	stop := r.stop
	done := r.done
	r.asyncFn = nil
	r.mu.Unlock()

	close(stop)
	<-done
	return nil
}

// watch polls for level edges and reports completed pulses. Polling at
// ~50µs granularity is coarse next to interrupt-driven reception but is
// sufficient for the sub-kHz pulse protocols this tool targets.
func (r *lineRadio) watch(fn PulseFunc, stop, done chan struct{}) {
	defer close(done)

	last := r.pin.Read() == gpio.High
	since := time.Now()
	tick := time.NewTicker(50 * time.Microsecond)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tick.C:
		}
		cur := r.pin.Read() == gpio.High
		if cur == last {
			continue
		}
		now := time.Now()
		fn(last, uint32(now.Sub(since).Microseconds()))
		last = cur
		since = now
	}
}

func (r *lineRadio) Transmit(pulses []Pulse) error {
	// Receive-only hardware path.
	_ = pulses
	return ErrNotImplemented
}
