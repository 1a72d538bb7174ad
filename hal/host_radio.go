//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"time"
)

// simRadio replays a fixed OOK pulse train, standing in for a receiver's
// data line on host builds. The pattern is a 24-bit fixed-code remote frame
// followed by a long idle gap, so both the polled and the asynchronous
// receive paths see a plausible signal.
type simRadio struct {
	mu     sync.Mutex
	logger Logger

	t0  time.Time
	now func() time.Time

	pattern []Pulse
	total   uint64 // pattern duration in µs

	rx     bool
	lineIn bool

	asyncFn PulseFunc
	stop    chan struct{}
	done    chan struct{}
}

const simCode = 0x8E55A2 // arbitrary fixed 24-bit code

func newSimRadio(logger Logger) *simRadio {
	return newSimRadioWithClock(logger, time.Now)
}

func newSimRadioWithClock(logger Logger, now func() time.Time) *simRadio {
	r := &simRadio{
		logger:  logger,
		t0:      now(),
		now:     now,
		pattern: simPattern(simCode),
	}
	for _, p := range r.pattern {
		r.total += uint64(p.Dur)
	}
	return r
}

// simPattern builds one fixed-code frame: a sync pulse, 24 data bits MSB
// first (short-high/long-low = 0, long-high/short-low = 1), then idle.
func simPattern(code uint32) []Pulse {
	const short, long = 350, 1050
	out := make([]Pulse, 0, 2+48+1)
	out = append(out, Pulse{Level: true, Dur: short}, Pulse{Level: false, Dur: short * 31})
	for i := 23; i >= 0; i-- {
		if code&(1<<uint(i)) != 0 {
			out = append(out, Pulse{Level: true, Dur: long}, Pulse{Level: false, Dur: short})
		} else {
			out = append(out, Pulse{Level: true, Dur: short}, Pulse{Level: false, Dur: long})
		}
	}
	out = append(out, Pulse{Level: false, Dur: 60000})
	return out
}

func (r *simRadio) ReadLine() bool {
	r.mu.Lock()
	rx := r.rx
	r.mu.Unlock()
	if !rx || r.total == 0 {
		return false
	}

	elapsed := uint64(r.now().Sub(r.t0).Microseconds())
	phase := elapsed % r.total
	for _, p := range r.pattern {
		if phase < uint64(p.Dur) {
			return p.Level
		}
		phase -= uint64(p.Dur)
	}
	return false
}

func (r *simRadio) ConfigureLineInput() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineIn = true
	return nil
}

func (r *simRadio) SetRx() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = true
	return nil
}

func (r *simRadio) SetIdle() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = false
	return nil
}

func (r *simRadio) StartAsyncRx(fn PulseFunc) error {
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
	go r.feed(fn, r.stop, r.done)
	return nil
}

func (r *simRadio) StopAsyncRx() error {
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

// feed replays the pattern in (scaled-down) real time. Each pulse is
// reported once its level period has fully elapsed.
func (r *simRadio) feed(fn PulseFunc, stop, done chan struct{}) {
	defer close(done)
	for {
		for _, p := range r.pattern {
			select {
			case <-stop:
				return
			case <-time.After(time.Duration(p.Dur) * time.Microsecond):
			}
			fn(p.Level, p.Dur)
		}
	}
}

func (r *simRadio) Transmit(pulses []Pulse) error {
	var total uint64
	for _, p := range pulses {
		total += uint64(p.Dur)
	}
	if r.logger != nil {
		r.logger.WriteLineString(fmt.Sprintf("radio: tx %d pulses, %d usec", len(pulses), total))
	}
	return nil
}
