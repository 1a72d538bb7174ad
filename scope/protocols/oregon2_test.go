package protocols

import (
	"testing"

	"sigscope/scope/signal"
)

// oregonMarshal renders a frame the way the sensors key it: Manchester
// half-bits for the preamble, the sync zero, payload and checksum.
func oregonMarshal(payload uint32) *signal.RawSignal {
	var sum uint32
	for n := 0; n < 8; n++ {
		sum += payload >> uint(n*4) & 0xF
	}
	return oregonMarshalWord(uint64(payload)<<8 | uint64(sum&0xFF))
}

func oregonMarshalWord(word uint64) *signal.RawSignal {
	sig := signal.NewRawSignal(128)
	emit := func(bit bool) {
		sig.Append(bit, oregonHalf)
		sig.Append(!bit, oregonHalf)
	}
	for i := 0; i < 16; i++ {
		emit(true)
	}
	emit(false)
	for i := 39; i >= 0; i-- {
		emit(word>>uint(i)&1 == 1)
	}
	return sig
}

func TestOregon2Decode(t *testing.T) {
	o := NewOregon2()

	tcs := []struct {
		id   uint64
		ch   uint64
		temp int64
	}{
		{0x1D20, 0x1, 231},  // 23.1 C
		{0xF824, 0x4, -55},  // -5.5 C
		{0xABCD, 0x2, 0},
	}
	for _, tc := range tcs {
		payload := uint32(tc.id)<<16 | uint32(tc.ch)<<12 | uint32(tc.temp)&0xFFF
		msg, ok := o.Decode(oregonMarshal(payload))
		if !ok {
			t.Fatalf("Decode(id=%#x) failed", tc.id)
		}
		if got := msg.Fields.ByName("sensor_id").Uint(); got != tc.id {
			t.Fatalf("sensor_id=%#x; want %#x", got, tc.id)
		}
		if got := msg.Fields.ByName("channel").Uint(); got != tc.ch {
			t.Fatalf("channel=%d; want %d", got, tc.ch)
		}
		if got := msg.Fields.ByName("temp_decic").Int(); got != tc.temp {
			t.Fatalf("temp=%d; want %d", got, tc.temp)
		}
	}
}

func TestOregon2ChecksumReject(t *testing.T) {
	o := NewOregon2()
	payload := uint32(0x1D20)<<16 | 0x1<<12 | 231

	var sum uint32
	for n := 0; n < 8; n++ {
		sum += payload >> uint(n*4) & 0xF
	}
	bad := oregonMarshalWord(uint64(payload)<<8 | uint64((sum+1)&0xFF))
	if _, ok := o.Decode(bad); ok {
		t.Fatal("decoded frame with bad checksum")
	}
}

func TestOregon2IsReceiveOnly(t *testing.T) {
	if signal.IsBuilder(NewOregon2()) {
		t.Fatal("Oregon2 must not expose a builder surface")
	}
}

func TestOregon2RejectsUnrelatedSignal(t *testing.T) {
	o := NewOregon2()
	p := NewPrinceton()
	fs := signal.NewFieldSet()
	p.Fields(fs)
	fs.ByName("address").SetUint(0x8E55A)
	fs.ByName("command").SetUint(0x2)
	sig, err := p.Encode(fs)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := o.Decode(sig); ok {
		t.Fatal("decoded a Princeton frame as Oregon")
	}
}
