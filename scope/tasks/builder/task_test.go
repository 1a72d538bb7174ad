package builder

import (
	"testing"

	"sigscope/hal"
	"sigscope/scope/keys"
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

type fakeTx struct {
	sent [][]hal.Pulse
}

func (tx *fakeTx) Transmit(p []hal.Pulse) error {
	tx.sent = append(tx.sent, p)
	return nil
}

// testBuilder is a minimal encoding decoder with one uint field.
type testBuilder struct {
	name string
}

func (b *testBuilder) Name() string { return b.name }

func (b *testBuilder) Decode(*signal.RawSignal) (*signal.Message, bool) { return nil, false }

func (b *testBuilder) Fields(fs *signal.FieldSet) {
	fs.AddUint("value", 8, 0)
	fs.AddEnum("speed", []string{"slow", "fast"}, 0)
	fs.AddBytes("id", []byte{0xAA})
}

func (b *testBuilder) Encode(fs *signal.FieldSet) (*signal.RawSignal, error) {
	s := signal.NewRawSignal(4)
	s.Append(true, 100+uint32(fs.ByName("value").Uint()))
	s.Append(false, 100)
	return s, nil
}

func newTestTask(t *testing.T) (*Task, *fakeTx) {
	t.Helper()
	reg, err := signal.NewRegistry(
		&testBuilder{name: "proto-a"},
		&testBuilder{name: "proto-b"},
		&testBuilder{name: "proto-c"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	tx := &fakeTx{}
	task, err := New(newFakeFB(256, 192), nopLogger{}, reg, tx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return task, tx
}

func short(k keys.Key) keys.Event { return keys.Event{Key: k, Kind: keys.Short} }
func long(k keys.Key) keys.Event  { return keys.Event{Key: k, Kind: keys.Long} }

func TestBuildHappyPath(t *testing.T) {
	task, tx := newTestTask(t)

	// Two steps forward in a three-builder registry lands on the third.
	task.HandleKey(short(keys.KeyDown))
	task.HandleKey(short(keys.KeyDown))
	task.HandleKey(short(keys.KeyOK))

	fs := task.Fields()
	if fs == nil {
		t.Fatal("no field set after confirm")
	}
	if fs.Len() != 3 {
		t.Fatalf("fields=%d; want 3", fs.Len())
	}

	// Edit the first field up twice.
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyRight))
	task.HandleKey(short(keys.KeyRight))
	task.HandleKey(short(keys.KeyOK))
	if got := fs.ByName("value").Uint(); got != 2 {
		t.Fatalf("value=%d; want 2", got)
	}

	task.HandleKey(long(keys.KeyOK))
	if len(tx.sent) != 1 {
		t.Fatalf("sent=%d trains; want 1", len(tx.sent))
	}
	if len(tx.sent[0]) == 0 {
		t.Fatal("transmitted empty pulse train")
	}
	if tx.sent[0][0].Dur != 102 {
		t.Fatalf("encoded dur=%d; want 102", tx.sent[0][0].Dur)
	}
}

func TestSelectionWraps(t *testing.T) {
	task, _ := newTestTask(t)
	if task.cur != 0 {
		t.Fatalf("cur=%d; want 0", task.cur)
	}
	task.HandleKey(short(keys.KeyUp))
	if task.cur != 2 {
		t.Fatalf("up from first=%d; want 2 (wrap)", task.cur)
	}
	task.HandleKey(short(keys.KeyDown))
	if task.cur != 0 {
		t.Fatalf("down wraps back=%d; want 0", task.cur)
	}
}

func TestValueWrapping(t *testing.T) {
	task, _ := newTestTask(t)
	task.HandleKey(short(keys.KeyOK)) // confirm first builder
	fs := task.Fields()

	// Uint decrement from zero wraps to the field maximum.
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyLeft))
	if got := fs.ByName("value").Uint(); got != 255 {
		t.Fatalf("value=%d; want 255", got)
	}
	task.HandleKey(short(keys.KeyRight))
	if got := fs.ByName("value").Uint(); got != 0 {
		t.Fatalf("value=%d; want 0", got)
	}
	task.HandleKey(short(keys.KeyOK))

	// Enum cycles through its choices.
	task.HandleKey(short(keys.KeyDown))
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyRight))
	if got := fs.ByName("speed").Choice(); got != 1 {
		t.Fatalf("speed=%d; want 1", got)
	}
	task.HandleKey(short(keys.KeyRight))
	if got := fs.ByName("speed").Choice(); got != 0 {
		t.Fatalf("speed wrap=%d; want 0", got)
	}
}

func TestBytesFieldViewOnly(t *testing.T) {
	task, _ := newTestTask(t)
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyDown))
	task.HandleKey(short(keys.KeyDown)) // bytes field
	task.HandleKey(short(keys.KeyOK))
	if task.editing {
		t.Fatal("bytes field entered value editing")
	}
}

func TestBackReturnsToSelection(t *testing.T) {
	task, _ := newTestTask(t)
	task.HandleKey(short(keys.KeyOK))
	if task.Fields() == nil {
		t.Fatal("no field set after confirm")
	}
	task.HandleKey(short(keys.KeyBack))
	if task.Fields() != nil {
		t.Fatal("field set kept after leaving edit state")
	}
	if task.Editing() {
		t.Fatal("still in edit state")
	}
}

func TestExitDiscardsSession(t *testing.T) {
	task, _ := newTestTask(t)
	task.HandleKey(short(keys.KeyDown))
	task.HandleKey(short(keys.KeyOK))
	task.HandleKey(short(keys.KeyDown)) // select second field
	task.HandleKey(short(keys.KeyOK))   // start editing it
	if task.Fields() == nil || !task.editing {
		t.Fatal("session not set up")
	}

	task.Exit()
	if task.Fields() != nil {
		t.Fatal("field set survived Exit")
	}
	if task.Editing() || task.editing {
		t.Fatal("edit state survived Exit")
	}
	if task.sel != 0 {
		t.Fatalf("sel=%d; want 0", task.sel)
	}

	// Re-entering the flow starts from protocol selection again.
	task.HandleKey(short(keys.KeyOK))
	if fs := task.Fields(); fs == nil || fs.Len() != 3 {
		t.Fatal("confirm after Exit did not open a fresh field set")
	}
}

func TestRender(t *testing.T) {
	task, _ := newTestTask(t)
	task.Render() // selecting
	task.HandleKey(short(keys.KeyOK))
	task.Render() // editing
}
