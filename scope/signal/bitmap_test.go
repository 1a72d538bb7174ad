package signal

import "testing"

func TestBitmapSetGet(t *testing.T) {
	b := NewBitmap(128, 64)
	if b.Bits() != 128*64 {
		t.Fatalf("Bits=%d; want %d", b.Bits(), 128*64)
	}
	if b.Bytes() != 1024 {
		t.Fatalf("Bytes=%d; want 1024", b.Bytes())
	}

	for _, i := range []int{0, 1, 7, 8, 9, 1023, 8191} {
		b.Set(i, true)
		if !b.Get(i) {
			t.Fatalf("Get(%d)=false after Set", i)
		}
	}
	// Neighbors of a set bit stay clear.
	b2 := NewBitmap(128, 64)
	b2.Set(100, true)
	if b2.Get(99) || b2.Get(101) {
		t.Fatal("neighbor bits disturbed")
	}
	b2.Set(100, false)
	if b2.Get(100) {
		t.Fatal("clear did not stick")
	}
}

func TestBitmapIndexXY(t *testing.T) {
	b := NewBitmap(128, 64)
	i := b.Index(5, 3)
	if i != 3*128+5 {
		t.Fatalf("Index(5,3)=%d; want %d", i, 3*128+5)
	}
	x, y := b.XY(i)
	if x != 5 || y != 3 {
		t.Fatalf("XY(%d)=(%d,%d); want (5,3)", i, x, y)
	}
}

func TestBitmapClear(t *testing.T) {
	b := NewBitmap(16, 4)
	for i := 0; i < b.Bits(); i++ {
		b.Set(i, true)
	}
	b.Clear()
	for i := 0; i < b.Bits(); i++ {
		if b.Get(i) {
			t.Fatalf("bit %d set after Clear", i)
		}
	}
}

func TestBitmapOutOfRangePanics(t *testing.T) {
	b := NewBitmap(8, 8)
	for _, i := range []int{-1, 64} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("Set(%d) did not panic", i)
				}
			}()
			b.Set(i, true)
		}()
	}
}

func TestBitmapInvalidRasterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewBitmap(0,64) did not panic")
		}
	}()
	NewBitmap(0, 64)
}
