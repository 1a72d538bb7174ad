// Package draw adapts the HAL framebuffer to the tinyfont drawing
// interfaces and carries the shared palette and text helpers for the views.
package draw

import (
	"image/color"

	"sigscope/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	ColorBG    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	ColorFG    = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	ColorDim   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	ColorSelBG = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	ColorSelFG = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

	ColorWaveHi = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
	ColorWaveLo = color.RGBA{R: 0x24, G: 0x24, B: 0x24, A: 0xff}
	ColorAccent = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}
)

// Display wraps a hal.Framebuffer as a drivers.Displayer so tinyfont can
// draw on it.
type Display struct {
	fb hal.Framebuffer
}

func NewDisplay(fb hal.Framebuffer) *Display {
	return &Display{fb: fb}
}

func (d *Display) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *Display) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	h := d.fb.Height()

	x0 := ClampInt(int(x), 0, w)
	y0 := ClampInt(int(y), 0, h)
	x1 := ClampInt(int(x)+int(width), 0, w)
	y1 := ClampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *Display) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Font holds a tinyfont face plus the metrics the layout code works in.
type Font struct {
	Face   tinyfont.Fonter
	Width  int16
	Height int16
	Offset int16 // baseline offset from the top of a cell
}

func InitFont() (Font, bool) {
	f := Font{
		Face:   &proggy.TinySZ8pt7b,
		Height: 8,
		Offset: 6,
	}
	_, outboxWidth := tinyfont.LineWidth(f.Face, "0")
	f.Width = int16(outboxWidth)
	if f.Width <= 0 {
		return Font{}, false
	}
	return f, true
}

func WriteText(d *Display, f Font, x, y int16, c color.RGBA, s string) {
	tinyfont.WriteLine(d, f.Face, x, y, s, c)
}

// FitText truncates s to at most max characters.
func FitText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
