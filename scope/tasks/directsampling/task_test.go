package directsampling

import (
	"testing"

	"sigscope/hal"
	"sigscope/scope/keys"
	"sigscope/scope/sampler"
	"sigscope/scope/signal"
)

type fakeFB struct {
	w, h int
	buf  []byte
}

func newFakeFB(w, h int) *fakeFB {
	return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) ClearRGB(r, g, b uint8)  {}
func (f *fakeFB) Present() error          { return nil }

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}

// fakeLine records polled-mode transitions and serves a fixed level.
type fakeLine struct {
	entered int
	exited  int
	polled  bool
	level   bool
}

func (l *fakeLine) EnterPolled() error {
	l.entered++
	l.polled = true
	return nil
}

func (l *fakeLine) ExitPolled() error {
	l.exited++
	l.polled = false
	return nil
}

func (l *fakeLine) ReadLine() bool { return l.level }

type fakeCycles struct{ n uint32 }

func (c *fakeCycles) Count() uint32 {
	c.n += 64 * 400
	return c.n
}

func (c *fakeCycles) PerMicrosecond() uint32 { return 64 }

// recSaver copies the bitmap contents at save time.
type recSaver struct {
	bits []bool
	usec uint32
}

func (s *recSaver) Save(b *signal.Bitmap, usecPerPixel uint32) (string, error) {
	s.bits = make([]bool, b.Bits())
	for i := range s.bits {
		s.bits[i] = b.Get(i)
	}
	s.usec = usecPerPixel
	return "capture-001.sr", nil
}

func short(k keys.Key) keys.Event { return keys.Event{Key: k, Kind: keys.Short} }
func press(k keys.Key) keys.Event { return keys.Event{Key: k, Kind: keys.Press} }

func newTestTask(t *testing.T) (*Task, *fakeLine, *recSaver) {
	t.Helper()
	line := &fakeLine{}
	saver := &recSaver{}
	task, err := New(newFakeFB(256, 192), nopLogger{}, line, &fakeCycles{}, saver)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return task, line, saver
}

func TestCaptureCycle(t *testing.T) {
	task, line, saver := newTestTask(t)

	if err := task.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if line.entered != 1 || !line.polled {
		t.Fatal("Enter did not take the line")
	}
	if err := task.Enter(); err == nil {
		t.Fatal("double Enter accepted")
	}

	// No buffer until the first capture starts.
	task.Step()
	task.HandleKey(short(keys.KeyOK))
	if !task.Capturing() {
		t.Fatal("not capturing after ok")
	}

	line.level = true
	task.Step()
	task.HandleKey(short(keys.KeyLeft))
	if len(saver.bits) != 128*64 {
		t.Fatalf("saved %d samples; want %d", len(saver.bits), 128*64)
	}
	for i, v := range saver.bits {
		if !v {
			t.Fatalf("sample %d low after all-high sweep", i)
		}
	}
	if saver.usec != task.UsecPerPixel() {
		t.Fatalf("saved usec=%d; want %d", saver.usec, task.UsecPerPixel())
	}

	task.HandleKey(short(keys.KeyOK))
	if task.Capturing() {
		t.Fatal("still capturing after toggle")
	}

	if err := task.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if line.exited != 1 || line.polled {
		t.Fatal("Exit did not release the line")
	}

	// Re-entering allocates a fresh zeroed buffer.
	if err := task.Enter(); err != nil {
		t.Fatalf("re-Enter: %v", err)
	}
	line.level = false
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyLeft))
	for i, v := range saver.bits {
		if v {
			t.Fatalf("sample %d high in fresh buffer", i)
		}
	}
}

func TestPacingKeys(t *testing.T) {
	task, _, _ := newTestTask(t)
	if err := task.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	base := task.UsecPerPixel()
	task.HandleKey(press(keys.KeyDown))
	if got := task.UsecPerPixel(); got != base+5 {
		t.Fatalf("after down: %d; want %d", got, base+5)
	}
	task.HandleKey(keys.Event{Key: keys.KeyDown, Kind: keys.Repeat})
	if got := task.UsecPerPixel(); got != base+30 {
		t.Fatalf("after repeat down: %d; want %d", got, base+30)
	}
	task.HandleKey(press(keys.KeyUp))
	if got := task.UsecPerPixel(); got != base+25 {
		t.Fatalf("after up: %d; want %d", got, base+25)
	}

	for i := 0; i < 50; i++ {
		task.HandleKey(keys.Event{Key: keys.KeyUp, Kind: keys.Repeat})
	}
	if got := task.UsecPerPixel(); got != sampler.UsecPerPixelMin {
		t.Fatalf("min clamp: %d; want %d", got, sampler.UsecPerPixelMin)
	}
}

func TestSaveWithoutCapture(t *testing.T) {
	task, _, saver := newTestTask(t)
	if err := task.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	task.HandleKey(short(keys.KeyLeft))
	if saver.bits != nil {
		t.Fatal("saved with no capture buffer")
	}
}

func TestRender(t *testing.T) {
	task, _, _ := newTestTask(t)
	task.Render() // idle, no bitmap
	if err := task.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	task.HandleKey(short(keys.KeyOK))
	task.Step()
	task.Render()
}
