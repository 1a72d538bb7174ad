// Package builder implements the message construction view: pick a protocol
// that can encode, fill in its fields, and key the result out the radio.
package builder

import (
	"fmt"

	"sigscope/hal"
	"sigscope/scope/draw"
	"sigscope/scope/keys"
	"sigscope/scope/signal"
)

type state uint8

const (
	stateSelecting state = iota
	stateEditing
)

// Tx keys a pulse train onto the air.
type Tx interface {
	Transmit(pulses []hal.Pulse) error
}

type Task struct {
	fb   hal.Framebuffer
	d    *draw.Display
	font draw.Font
	log  hal.Logger
	reg  *signal.Registry
	tx   Tx

	state   state
	cur     int // registry index of the selected builder
	fields  *signal.FieldSet
	sel     int // selected field
	editing bool
	msg     string
}

func New(fb hal.Framebuffer, log hal.Logger, reg *signal.Registry, tx Tx) (*Task, error) {
	font, ok := draw.InitFont()
	if !ok {
		return nil, fmt.Errorf("builder: font init failed")
	}
	t := &Task{
		fb:   fb,
		d:    draw.NewDisplay(fb),
		font: font,
		log:  log,
		reg:  reg,
		tx:   tx,
	}
	t.cur = reg.FirstBuilder()
	t.msg = "up/down protocol | ok edit"
	return t, nil
}

// Fields exposes the working field set; nil until a protocol is confirmed.
func (t *Task) Fields() *signal.FieldSet { return t.fields }

// Exit discards the working field set. The next entry into the view starts
// back at protocol selection.
func (t *Task) Exit() {
	t.state = stateSelecting
	t.fields = nil
	t.sel = 0
	t.editing = false
	t.msg = "up/down protocol | ok edit"
}

func (t *Task) Editing() bool { return t.state == stateEditing }

func (t *Task) HandleKey(ev keys.Event) {
	if t.state == stateSelecting {
		t.handleSelecting(ev)
		return
	}
	t.handleEditing(ev)
}

func (t *Task) handleSelecting(ev keys.Event) {
	switch {
	case ev.Key == keys.KeyUp && ev.Kind == keys.Short:
		t.cur = t.reg.PrevBuilder(t.cur)

	case ev.Key == keys.KeyDown && ev.Kind == keys.Short:
		t.cur = t.reg.NextBuilder(t.cur)

	case ev.Key == keys.KeyOK && ev.Kind == keys.Short:
		t.confirm()
	}
}

func (t *Task) confirm() {
	b, ok := t.reg.At(t.cur).(signal.MessageBuilder)
	if !ok {
		t.msg = "protocol cannot build"
		return
	}
	fs := signal.NewFieldSet()
	b.Fields(fs)
	t.fields = fs
	t.sel = 0
	t.editing = false
	t.state = stateEditing
	t.msg = "ok edit value | hold ok send | back protocols"
}

func (t *Task) handleEditing(ev keys.Event) {
	if ev.Key == keys.KeyOK && ev.Kind == keys.Long {
		t.send()
		return
	}
	if t.editing {
		switch {
		case ev.Key == keys.KeyLeft && (ev.Kind == keys.Short || ev.Kind == keys.Repeat):
			t.stepValue(-1)
		case ev.Key == keys.KeyRight && (ev.Kind == keys.Short || ev.Kind == keys.Repeat):
			t.stepValue(1)
		case ev.Key == keys.KeyOK && ev.Kind == keys.Short,
			ev.Key == keys.KeyBack && ev.Kind == keys.Short:
			t.editing = false
			t.msg = "ok edit value | hold ok send | back protocols"
		}
		return
	}
	switch {
	case ev.Key == keys.KeyUp && (ev.Kind == keys.Short || ev.Kind == keys.Repeat):
		if t.sel > 0 {
			t.sel--
		}
	case ev.Key == keys.KeyDown && (ev.Kind == keys.Short || ev.Kind == keys.Repeat):
		if t.sel+1 < t.fields.Len() {
			t.sel++
		}
	case ev.Key == keys.KeyOK && ev.Kind == keys.Short:
		f := t.fields.At(t.sel)
		if f == nil {
			return
		}
		if f.Type() == signal.FieldBytes {
			t.msg = "bytes field is view only"
			return
		}
		t.editing = true
		t.msg = "left/right adjust | ok done"
	case ev.Key == keys.KeyBack && ev.Kind == keys.Short:
		t.state = stateSelecting
		t.fields = nil
		t.msg = "up/down protocol | ok edit"
	}
}

// stepValue nudges the selected field by delta, wrapping at the type's
// bounds.
func (t *Task) stepValue(delta int) {
	f := t.fields.At(t.sel)
	if f == nil {
		return
	}
	switch f.Type() {
	case signal.FieldUint:
		max := ^uint64(0)
		if f.Bits() < 64 {
			max = 1<<uint(f.Bits()) - 1
		}
		v := f.Uint()
		if delta > 0 {
			if v == max {
				v = 0
			} else {
				v++
			}
		} else {
			if v == 0 {
				v = max
			} else {
				v--
			}
		}
		_ = f.SetUint(v)

	case signal.FieldInt:
		lo := -(int64(1) << uint(f.Bits()-1))
		hi := int64(1)<<uint(f.Bits()-1) - 1
		v := f.Int() + int64(delta)
		if v > hi {
			v = lo
		}
		if v < lo {
			v = hi
		}
		_ = f.SetInt(v)

	case signal.FieldEnum:
		n := len(f.Choices())
		c := (f.Choice() + delta + n) % n
		_ = f.SetChoice(c)
	}
}

func (t *Task) send() {
	if t.fields == nil {
		return
	}
	b, ok := t.reg.At(t.cur).(signal.MessageBuilder)
	if !ok {
		return
	}
	sig, err := b.Encode(t.fields)
	if err != nil {
		t.msg = "encode failed"
		t.log.WriteLineString(fmt.Sprintf("builder: encode %s: %v", b.Name(), err))
		return
	}
	if err := t.tx.Transmit(sig.Pulses()); err != nil {
		t.msg = "tx failed"
		t.log.WriteLineString(fmt.Sprintf("builder: tx %s: %v", b.Name(), err))
		return
	}
	t.msg = fmt.Sprintf("sent %d pulses", sig.Len())
	t.log.WriteLineString(fmt.Sprintf("builder: sent %s, %d pulses", b.Name(), sig.Len()))
}

func (t *Task) Render() {
	if t.fb == nil {
		return
	}
	w := int16(t.fb.Width())
	h := int16(t.fb.Height())
	t.d.FillRectangle(0, 0, w, h, draw.ColorBG)

	cols := int(w / t.font.Width)
	footerH := t.font.Height + 2

	if t.state == stateSelecting {
		t.renderSelecting(cols)
	} else {
		t.renderEditing(cols)
	}

	if t.msg != "" {
		draw.WriteText(t.d, t.font, 2, h-footerH+t.font.Offset, draw.ColorDim, draw.FitText(t.msg, cols))
	}
	_ = t.fb.Present()
}

func (t *Task) renderSelecting(cols int) {
	draw.WriteText(t.d, t.font, 2, 2+t.font.Offset, draw.ColorFG, "Build message")
	y := 2 + t.font.Height*2
	for i := 0; i < t.reg.Len(); i++ {
		d := t.reg.At(i)
		if !signal.IsBuilder(d) {
			continue
		}
		fg := draw.ColorFG
		if i == t.cur {
			t.d.FillRectangle(0, y-1, int16(cols)*t.font.Width, t.font.Height+1, draw.ColorSelBG)
			fg = draw.ColorSelFG
		}
		draw.WriteText(t.d, t.font, 2, y+t.font.Offset, fg, draw.FitText(d.Name(), cols))
		y += t.font.Height
	}
}

func (t *Task) renderEditing(cols int) {
	name := t.reg.At(t.cur).Name()
	draw.WriteText(t.d, t.font, 2, 2+t.font.Offset, draw.ColorFG, draw.FitText(name, cols))

	y := 2 + t.font.Height*2
	for i := 0; i < t.fields.Len(); i++ {
		f := t.fields.At(i)
		fg := draw.ColorFG
		if i == t.sel {
			bg := draw.ColorSelBG
			if t.editing {
				bg = draw.ColorAccent
			}
			t.d.FillRectangle(0, y-1, int16(cols)*t.font.Width, t.font.Height+1, bg)
			fg = draw.ColorSelFG
		}
		line := fmt.Sprintf("%-10s %s", f.Name(), f.Text())
		draw.WriteText(t.d, t.font, 2, y+t.font.Offset, fg, draw.FitText(line, cols))
		y += t.font.Height
	}
}
