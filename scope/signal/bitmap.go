package signal

import "fmt"

// Bitmap is a fixed-capacity packed bit buffer mapped onto a 2D raster.
// Bit i lives at byte i/8, bit i%8; capacity is fixed at construction.
//
// Indexing outside [0, Bits()) is a programming error and panics; levels are
// never silently wrapped onto another bit.
type Bitmap struct {
	buf    []byte
	width  int
	height int
}

// NewBitmap allocates a zeroed bitmap for a width x height raster.
func NewBitmap(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("signal: invalid raster %dx%d", width, height))
	}
	bits := width * height
	return &Bitmap{
		buf:    make([]byte, (bits+7)/8),
		width:  width,
		height: height,
	}
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

// Bits reports the logical bit count (width * height).
func (b *Bitmap) Bits() int { return b.width * b.height }

// Bytes reports the backing storage size.
func (b *Bitmap) Bytes() int { return len(b.buf) }

// Set writes level into bit i without disturbing any other bit.
func (b *Bitmap) Set(i int, level bool) {
	b.check(i)
	if level {
		b.buf[i/8] |= 1 << uint(i%8)
	} else {
		b.buf[i/8] &^= 1 << uint(i%8)
	}
}

// Get reads bit i.
func (b *Bitmap) Get(i int) bool {
	b.check(i)
	return b.buf[i/8]&(1<<uint(i%8)) != 0
}

// Index maps raster coordinates to a linear bit index.
func (b *Bitmap) Index(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("signal: raster (%d,%d) out of %dx%d", x, y, b.width, b.height))
	}
	return y*b.width + x
}

// XY maps a linear bit index to raster coordinates.
func (b *Bitmap) XY(i int) (x, y int) {
	b.check(i)
	return i % b.width, i / b.width
}

// Clear zeroes every bit.
func (b *Bitmap) Clear() {
	for i := range b.buf {
		b.buf[i] = 0
	}
}

func (b *Bitmap) check(i int) {
	if i < 0 || i >= b.Bits() {
		panic(fmt.Sprintf("signal: bit index %d out of range [0,%d)", i, b.Bits()))
	}
}
