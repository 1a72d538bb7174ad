//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	radio  Radio
	cyc    *hostCycles
}

// Options selects host backend variants.
type Options struct {
	// LinePin names a GPIO line (e.g. "GPIO17") to read the radio line from
	// real hardware via periph.io. Empty means the built-in simulated line.
	LinePin string

	// RasterW/RasterH size the framebuffer.
	RasterW int
	RasterH int
}

// New returns a host HAL with the simulated radio line.
func New() HAL {
	h, err := NewWithOptions(Options{})
	if err != nil {
		// The simulated backend cannot fail to construct.
		panic(err)
	}
	return h
}

// NewWithOptions returns a host HAL.
func NewWithOptions(opts Options) (HAL, error) {
	if opts.RasterW <= 0 {
		opts.RasterW = 256
	}
	if opts.RasterH <= 0 {
		opts.RasterH = 192
	}

	logger := &hostLogger{w: os.Stdout}

	var radio Radio
	if opts.LinePin != "" {
		r, err := newLineRadio(opts.LinePin, logger)
		if err != nil {
			return nil, fmt.Errorf("hal: line %s: %w", opts.LinePin, err)
		}
		radio = r
	} else {
		radio = newSimRadio(logger)
	}

	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(opts.RasterW, opts.RasterH),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		radio:  radio,
		cyc:    newHostCycles(),
	}, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Radio() Radio     { return h.radio }
func (h *hostHAL) Cycles() Cycles   { return h.cyc }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
