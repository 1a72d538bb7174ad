//go:build !tinygo

package hal

import (
	"testing"
	"time"
)

func TestSimRadioReadLine(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	r := newSimRadioWithClock(nil, clock)

	// Before SetRx the line is always low.
	now = now.Add(100 * time.Microsecond)
	if r.ReadLine() {
		t.Fatal("line high before rx")
	}

	if err := r.SetRx(); err != nil {
		t.Fatalf("SetRx: %v", err)
	}

	// Sync pulse: high for the first 350 µs from t0, then low.
	now = time.Unix(0, 0).Add(100 * time.Microsecond)
	if !r.ReadLine() {
		t.Fatal("expected high in sync pulse")
	}
	now = time.Unix(0, 0).Add(500 * time.Microsecond)
	if r.ReadLine() {
		t.Fatal("expected low in sync gap")
	}

	// One full pattern later the phase repeats.
	now = now.Add(time.Duration(r.total) * time.Microsecond)
	if r.ReadLine() {
		t.Fatal("expected low at same phase next frame")
	}
	now = time.Unix(0, 0).Add(time.Duration(r.total)*time.Microsecond + 100*time.Microsecond)
	if !r.ReadLine() {
		t.Fatal("expected high at frame start next cycle")
	}

	if err := r.SetIdle(); err != nil {
		t.Fatalf("SetIdle: %v", err)
	}
	if r.ReadLine() {
		t.Fatal("line high after idle")
	}
}

func TestSimPatternShape(t *testing.T) {
	p := simPattern(0x8E55A2)
	if len(p) != 2+48+1 {
		t.Fatalf("pattern has %d pulses; want %d", len(p), 2+48+1)
	}
	if !p[0].Level || p[0].Dur != 350 {
		t.Fatalf("sync high=%+v", p[0])
	}
	if p[1].Level || p[1].Dur != 350*31 {
		t.Fatalf("sync low=%+v", p[1])
	}
	if last := p[len(p)-1]; last.Level || last.Dur != 60000 {
		t.Fatalf("idle tail=%+v", last)
	}
	// Levels alternate high/low through the data section.
	for i := 2; i < len(p)-1; i += 2 {
		if !p[i].Level || p[i+1].Level {
			t.Fatalf("bit pair %d has wrong polarity", (i-2)/2)
		}
	}
}

func TestSimRadioAsyncStopIsIdempotent(t *testing.T) {
	r := newSimRadioWithClock(nil, time.Now)
	if err := r.StopAsyncRx(); err != nil {
		t.Fatalf("StopAsyncRx without start: %v", err)
	}
	if err := r.StartAsyncRx(func(bool, uint32) {}); err != nil {
		t.Fatalf("StartAsyncRx: %v", err)
	}
	if err := r.StartAsyncRx(func(bool, uint32) {}); err == nil {
		t.Fatal("second StartAsyncRx accepted")
	}
	if err := r.StopAsyncRx(); err != nil {
		t.Fatalf("StopAsyncRx: %v", err)
	}
	if err := r.StopAsyncRx(); err != nil {
		t.Fatalf("second StopAsyncRx: %v", err)
	}
}
