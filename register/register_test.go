package register

import "testing"

func TestWordWriteAppliesMask(t *testing.T) {
	r := NewWord("r1", 0x00ff)
	r.Write(0xabcd)
	if got, want := r.Read(), uint16(0xab00); got != want {
		t.Fatalf("Read() = %#x, want %#x", got, want)
	}
}

func TestWordNoMaskRoundTrips(t *testing.T) {
	r := NewWord("r1", 0)
	for _, v := range []uint16{0, 1, 0x1234, 0xffff} {
		r.Write(v)
		if got := r.Read(); got != v {
			t.Fatalf("Write(%#x) then Read() = %#x", v, got)
		}
	}
}

func TestFileR0HardwiredZero(t *testing.T) {
	f := NewFile()
	f.Get(R0).Write(0xdead)
	if got := f.Get(R0).Read(); got != 0 {
		t.Fatalf("r0 = %#x, want 0", got)
	}
}

func TestFileGetMasksIndexToThreeBits(t *testing.T) {
	f := NewFile()
	f.Get(R1).Write(0x42)
	if got := f.Get(R1 | 0x08).Read(); got != 0x42 {
		t.Fatalf("Get(r1|0x8) = %#x, want 0x42 (index should wrap mod 8)", got)
	}
}

func TestByteWriteAppliesMask(t *testing.T) {
	r := NewByte("status", 0xf0)
	r.Write(0xff)
	if got, want := r.Read(), uint8(0x0f); got != want {
		t.Fatalf("Read() = %#x, want %#x", got, want)
	}
}
