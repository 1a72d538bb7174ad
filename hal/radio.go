package hal

// Pulse is one level period on the radio line, in microseconds.
type Pulse struct {
	Level bool
	Dur   uint32
}

// PulseFunc receives one pulse from the asynchronous receive path.
//
// It is called from the backend's receive context; implementations must not
// block for long.
type PulseFunc func(level bool, durUs uint32)

// Radio is the single digital radio line plus its mode controls.
//
// The line is a singleton resource: exactly one of the asynchronous receive
// path and synchronous polling may be active at a time. Mode sequencing is
// enforced by scope/rxtx, not by backends.
type Radio interface {
	// ReadLine returns the instantaneous level of the receive line.
	ReadLine() bool

	// ConfigureLineInput prepares the line for direct polling reads.
	ConfigureLineInput() error

	// StartAsyncRx begins callback-driven reception. The callback stays
	// installed until StopAsyncRx.
	StartAsyncRx(fn PulseFunc) error

	// StopAsyncRx fully stops callback-driven reception. After it returns
	// no further callbacks are delivered.
	StopAsyncRx() error

	// SetRx puts the transceiver in receive mode without starting the
	// asynchronous path (the line can then be polled directly).
	SetRx() error

	// SetIdle puts the transceiver in idle mode.
	SetIdle() error

	// Transmit sends a pulse train over the line.
	Transmit(pulses []Pulse) error
}

// Cycles is a cycle-accurate elapsed-time source.
//
// Count wraps; callers must compare durations by subtraction. PerMicrosecond
// reports the current cycles-per-microsecond figure and may change over time
// as the clock scales, so pacing code reads it per use rather than caching it.
type Cycles interface {
	Count() uint32
	PerMicrosecond() uint32
}
