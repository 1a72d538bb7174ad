// Package rxtx owns the radio line. It runs one of three receive paths at a
// time: hardware async RX feeding the decoders, a debug timer worker that
// polls the line from the tick stream, or the polled mode the direct
// sampling view needs, where nobody but the caller touches the line.
package rxtx

import (
	"fmt"
	"sync"

	"sigscope/hal"
	"sigscope/scope/signal"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeAsyncRx
	ModeDebugTimer
	ModePolled
)

func (m Mode) String() string {
	switch m {
	case ModeAsyncRx:
		return "async-rx"
	case ModeDebugTimer:
		return "debug-timer"
	case ModePolled:
		return "polled"
	}
	return "idle"
}

// An accumulated frame ends when the line stays on one level at least this
// long; the gap pulse itself is kept so decoders can anchor on it.
const frameGapUs = 15000

// Controller serializes access to the radio. All mode changes stop the old
// path before starting the new one, so at most one receiver drives the line.
type Controller struct {
	radio hal.Radio
	log   hal.Logger
	reg   *signal.Registry

	mu   sync.Mutex
	mode Mode
	prev Mode // mode to restore when polled mode ends
	acc  *signal.RawSignal
	last *signal.Message
	seen uint64

	debugTicks <-chan uint64
	stopDebug  chan struct{}
	doneDebug  chan struct{}
}

func NewController(radio hal.Radio, log hal.Logger, reg *signal.Registry) *Controller {
	return &Controller{
		radio: radio,
		log:   log,
		reg:   reg,
		acc:   signal.NewRawSignal(512),
	}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// LastMessage returns the most recently decoded message and the running
// count of decoded frames.
func (c *Controller) LastMessage() (*signal.Message, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.seen
}

// StartAsyncRx puts the radio in receive and routes pulses to the decoders.
func (c *Controller) StartAsyncRx() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stopLocked(); err != nil {
		return err
	}
	if err := c.radio.SetRx(); err != nil {
		return fmt.Errorf("rxtx: set rx: %w", err)
	}
	if err := c.radio.StartAsyncRx(c.onPulse); err != nil {
		return fmt.Errorf("rxtx: start async rx: %w", err)
	}
	c.mode = ModeAsyncRx
	return nil
}

// StartDebugTimer receives by polling the line once per tick from ticks,
// for radios without an async pulse path. Tick cadence bounds the timing
// resolution, so this is a debugging aid, not a real receiver.
func (c *Controller) StartDebugTimer(ticks <-chan uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stopLocked(); err != nil {
		return err
	}
	if err := c.radio.SetRx(); err != nil {
		return fmt.Errorf("rxtx: set rx: %w", err)
	}
	if err := c.radio.ConfigureLineInput(); err != nil {
		return fmt.Errorf("rxtx: configure line: %w", err)
	}
	c.debugTicks = ticks
	c.stopDebug = make(chan struct{})
	c.doneDebug = make(chan struct{})
	go c.debugWorker(ticks, c.stopDebug, c.doneDebug)
	c.mode = ModeDebugTimer
	return nil
}

// EnterPolled stops whatever receive path is running and hands the line to
// the caller: radio in RX, line configured as input, no worker reading it.
// Entering twice is an error.
func (c *Controller) EnterPolled() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModePolled {
		return fmt.Errorf("rxtx: already in polled mode")
	}
	prev := c.mode
	if err := c.stopLocked(); err != nil {
		return err
	}
	if err := c.radio.SetRx(); err != nil {
		return fmt.Errorf("rxtx: set rx: %w", err)
	}
	if err := c.radio.ConfigureLineInput(); err != nil {
		return fmt.Errorf("rxtx: configure line: %w", err)
	}
	c.mode = ModePolled
	c.prev = prev
	return nil
}

// ExitPolled leaves polled mode and restores the receive path that was
// active before EnterPolled.
func (c *Controller) ExitPolled() error {
	c.mu.Lock()
	if c.mode != ModePolled {
		c.mu.Unlock()
		return fmt.Errorf("rxtx: not in polled mode")
	}
	prev := c.prev
	ticks := c.debugTicks
	c.mode = ModeIdle
	c.mu.Unlock()

	switch prev {
	case ModeAsyncRx:
		return c.StartAsyncRx()
	case ModeDebugTimer:
		return c.StartDebugTimer(ticks)
	}
	return nil
}

// ReadLine samples the line level. Only meaningful in polled mode.
func (c *Controller) ReadLine() bool { return c.radio.ReadLine() }

// Transmit keys the given pulse train. Refused while the line is handed to
// a polled-mode caller.
func (c *Controller) Transmit(pulses []hal.Pulse) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	if mode == ModePolled {
		return fmt.Errorf("rxtx: cannot transmit in polled mode")
	}
	if len(pulses) == 0 {
		return fmt.Errorf("rxtx: empty pulse train")
	}
	if err := c.radio.Transmit(pulses); err != nil {
		return fmt.Errorf("rxtx: transmit: %w", err)
	}
	return nil
}

// Stop halts any receive path and idles the radio.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stopLocked(); err != nil {
		return err
	}
	return c.radio.SetIdle()
}

// stopLocked tears down the active path. Callers hold c.mu.
func (c *Controller) stopLocked() error {
	switch c.mode {
	case ModeAsyncRx:
		// The backend joins its feed goroutine on stop, and that goroutine
		// may be blocked on c.mu inside onPulse; drop the lock while it
		// drains.
		c.mu.Unlock()
		err := c.radio.StopAsyncRx()
		c.mu.Lock()
		if err != nil {
			return fmt.Errorf("rxtx: stop async rx: %w", err)
		}
	case ModeDebugTimer:
		stop, done := c.stopDebug, c.doneDebug
		c.stopDebug, c.doneDebug = nil, nil
		close(stop)
		// The worker may be blocked on c.mu inside onPulse; drop the
		// lock while waiting it out.
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}
	c.mode = ModeIdle
	c.acc.Reset()
	return nil
}

// onPulse accumulates the pulse train and tries the decoders once the line
// goes quiet for a frame gap.
func (c *Controller) onPulse(level bool, durUs uint32) {
	c.mu.Lock()
	c.acc.Append(level, durUs)
	if durUs < frameGapUs {
		c.mu.Unlock()
		return
	}
	frame := c.acc
	c.acc = signal.NewRawSignal(512)
	c.mu.Unlock()

	msg, ok := c.reg.TryDecode(frame)
	if !ok {
		return
	}
	c.mu.Lock()
	c.last = msg
	c.seen++
	c.mu.Unlock()
	c.log.WriteLineString(fmt.Sprintf("rxtx: decoded %s (%d pulses)", msg.Protocol, frame.Len()))
}

// debugWorker turns per-tick line levels into pulses. One tick is one
// millisecond on every current platform.
func (c *Controller) debugWorker(ticks <-chan uint64, stop, done chan struct{}) {
	defer close(done)
	var (
		level bool
		run   uint32
		init  bool
	)
	for {
		select {
		case <-stop:
			return
		case <-ticks:
			v := c.radio.ReadLine()
			if !init {
				level, run, init = v, 1, true
				continue
			}
			if v == level {
				if run < 1<<20 {
					run++
				}
				continue
			}
			c.onPulse(level, run*1000)
			level, run = v, 1
		}
	}
}
