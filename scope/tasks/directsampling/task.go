// Package directsampling implements the raw line viewer: the radio line is
// polled at a fixed pace into a packed bitmap and shown pixel per sample.
// While a capture sweep runs nothing else may touch the line, so the view
// takes the radio in polled mode for its whole lifetime.
package directsampling

import (
	"fmt"

	"sigscope/hal"
	"sigscope/scope/draw"
	"sigscope/scope/keys"
	"sigscope/scope/sampler"
	"sigscope/scope/signal"
)

// Raster of the capture bitmap. 1024 bytes of storage.
const (
	rasterW = 128
	rasterH = 64
)

type state uint8

const (
	stateIdle state = iota
	stateCapturing
)

// Saver persists a finished capture; the string names where it went.
type Saver interface {
	Save(b *signal.Bitmap, usecPerPixel uint32) (string, error)
}

// Line is the polled radio surface this view drives.
type Line interface {
	EnterPolled() error
	ExitPolled() error
	ReadLine() bool
}

type Task struct {
	fb    hal.Framebuffer
	d     *draw.Display
	font  draw.Font
	log   hal.Logger
	line  Line
	cyc   hal.Cycles
	saver Saver

	state  state
	bitmap *signal.Bitmap // lazy; freed on Exit
	smp    *sampler.Sampler
	pacing sampler.Pacing

	entered bool
	msg     string
}

func New(fb hal.Framebuffer, log hal.Logger, line Line, cyc hal.Cycles, saver Saver) (*Task, error) {
	font, ok := draw.InitFont()
	if !ok {
		return nil, fmt.Errorf("directsampling: font init failed")
	}
	return &Task{
		fb:     fb,
		d:      draw.NewDisplay(fb),
		font:   font,
		log:    log,
		line:   line,
		cyc:    cyc,
		saver:  saver,
		pacing: sampler.NewPacing(),
	}, nil
}

// Enter takes the line in polled mode. The bitmap stays unallocated until
// the first sweep actually needs it.
func (t *Task) Enter() error {
	if t.entered {
		return fmt.Errorf("directsampling: already entered")
	}
	if err := t.line.EnterPolled(); err != nil {
		return err
	}
	t.entered = true
	t.state = stateIdle
	t.msg = "ok capture | up/down pace | left save | back exit"
	return nil
}

// Exit frees the capture buffer and gives the line back.
func (t *Task) Exit() error {
	if !t.entered {
		return nil
	}
	t.entered = false
	t.state = stateIdle
	t.bitmap = nil
	t.smp = nil
	return t.line.ExitPolled()
}

func (t *Task) Capturing() bool { return t.state == stateCapturing }

func (t *Task) UsecPerPixel() uint32 { return t.pacing.UsecPerPixel() }

func (t *Task) HandleKey(ev keys.Event) {
	switch {
	case ev.Key == keys.KeyOK && ev.Kind == keys.Short:
		t.toggleCapture()

	case ev.Key == keys.KeyUp && (ev.Kind == keys.Press || ev.Kind == keys.Repeat):
		t.pacing.Decrease(ev.Kind == keys.Repeat)
		t.msg = ""

	case ev.Key == keys.KeyDown && (ev.Kind == keys.Press || ev.Kind == keys.Repeat):
		t.pacing.Increase(ev.Kind == keys.Repeat)
		t.msg = ""

	case ev.Key == keys.KeyLeft && ev.Kind == keys.Short:
		t.save()
	}
}

func (t *Task) toggleCapture() {
	if t.state == stateCapturing {
		t.state = stateIdle
		t.msg = "paused"
		return
	}
	if t.bitmap == nil {
		t.bitmap = signal.NewBitmap(rasterW, rasterH)
		t.smp = sampler.New(t.line.ReadLine, t.cyc)
	}
	t.state = stateCapturing
	t.msg = ""
}

func (t *Task) save() {
	if t.bitmap == nil || t.saver == nil {
		t.msg = "nothing to save"
		return
	}
	name, err := t.saver.Save(t.bitmap, t.pacing.UsecPerPixel())
	if err != nil {
		t.msg = "save failed"
		t.log.WriteLineString(fmt.Sprintf("directsampling: save: %v", err))
		return
	}
	t.msg = "saved " + name
	t.log.WriteLineString("directsampling: saved " + name)
}

// Step runs one full sweep when capturing. The sweep itself is hard real
// time; everything around it is not.
func (t *Task) Step() {
	if t.state != stateCapturing || t.smp == nil {
		return
	}
	t.smp.Capture(t.bitmap, t.pacing.UsecPerPixel())
}

// Render draws the bitmap scaled to the framebuffer with a one line footer.
func (t *Task) Render() {
	if t.fb == nil {
		return
	}
	w := int16(t.fb.Width())
	h := int16(t.fb.Height())
	t.d.FillRectangle(0, 0, w, h, draw.ColorBG)

	footerH := t.font.Height + 2
	t.renderBitmap(int(w), int(h)-int(footerH))

	status := "idle"
	if t.state == stateCapturing {
		status = "capturing"
	}
	footer := fmt.Sprintf("%s | %d usec/px", status, t.pacing.UsecPerPixel())
	cols := int(w / t.font.Width)
	draw.WriteText(t.d, t.font, 2, h-footerH+t.font.Offset, draw.ColorFG, draw.FitText(footer, cols))
	if t.msg != "" {
		draw.WriteText(t.d, t.font, 2, h-footerH-t.font.Height+t.font.Offset, draw.ColorDim, draw.FitText(t.msg, cols))
	}

	_ = t.fb.Present()
}

func (t *Task) renderBitmap(w, h int) {
	if t.bitmap == nil {
		draw.WriteText(t.d, t.font, 2, 2+t.font.Offset, draw.ColorDim, "No capture yet (ok to start).")
		return
	}
	scale := w / rasterW
	if sy := h / rasterH; sy < scale {
		scale = sy
	}
	if scale < 1 {
		scale = 1
	}
	offX := (w - rasterW*scale) / 2
	offY := (h - rasterH*scale) / 2

	for y := 0; y < rasterH; y++ {
		for x := 0; x < rasterW; x++ {
			c := draw.ColorWaveLo
			if t.bitmap.Get(t.bitmap.Index(x, y)) {
				c = draw.ColorWaveHi
			}
			t.d.FillRectangle(int16(offX+x*scale), int16(offY+y*scale), int16(scale), int16(scale), c)
		}
	}
}
