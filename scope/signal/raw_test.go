package signal

import "testing"

func TestRawSignalCoalesce(t *testing.T) {
	s := NewRawSignal(8)
	s.Append(true, 100)
	s.Append(true, 50)
	s.Append(false, 200)
	s.Append(false, 0) // dropped
	s.Append(true, 10)

	if s.Len() != 3 {
		t.Fatalf("Len=%d; want 3", s.Len())
	}
	if p := s.At(0); !p.Level || p.Dur != 150 {
		t.Fatalf("At(0)=%+v; want high 150", p)
	}
	if p := s.At(1); p.Level || p.Dur != 200 {
		t.Fatalf("At(1)=%+v; want low 200", p)
	}
	if got := s.Duration(); got != 360 {
		t.Fatalf("Duration=%d; want 360", got)
	}
}

func TestRawSignalReset(t *testing.T) {
	s := NewRawSignal(4)
	s.Append(true, 1)
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len after Reset=%d", s.Len())
	}
	s.Append(true, 5)
	if s.Len() != 1 || s.At(0).Dur != 5 {
		t.Fatal("append after Reset broken")
	}
}
