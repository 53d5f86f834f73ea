package mmu

import (
	"testing"

	"github.com/mylez/mpce/interrupt"
)

func TestResolvePhysicalAddressFormula(t *testing.T) {
	m := New()
	irq := interrupt.New()

	// PTE with frame 0x10, not read-only, not unmapped.
	m.StoreEntry(false, 0, 0x0010)

	virt := uint16(0x0042) // page 0, offset 0x42
	phys := m.Resolve(virt, 0, false, false, irq)

	want := (uint32(0x10) << 14) | uint32(0x42)
	if phys != want {
		t.Fatalf("phys = %#x, want %#x", phys, want)
	}
	if irq.IsSignalled(interrupt.PGFault, interrupt.ROFault) {
		t.Fatal("unexpected fault signalled")
	}
}

func TestResolveUnmappedSignalsPageFault(t *testing.T) {
	m := New()
	irq := interrupt.New()
	m.StoreEntry(false, 0, 0x8000) // unmapped bit set

	m.Resolve(0, 0, false, false, irq)
	if !irq.IsSignalled(interrupt.PGFault) {
		t.Fatal("expected PGFault")
	}
}

func TestResolveReadOnlyWriteSignalsROFault(t *testing.T) {
	m := New()
	irq := interrupt.New()
	m.StoreEntry(true, 0, 0x4000) // read-only, mapped

	m.Resolve(0, 0, true, true, irq)
	if !irq.IsSignalled(interrupt.ROFault) {
		t.Fatal("expected ROFault on write to read-only page")
	}

	irq2 := interrupt.New()
	m.Resolve(0, 0, true, false, irq2)
	if irq2.IsSignalled(interrupt.ROFault) {
		t.Fatal("unexpected ROFault on read of read-only page")
	}
}

func TestPTBSelectsDistinctPageTableIndex(t *testing.T) {
	m := New()
	irq := interrupt.New()

	m.StoreEntry(false, 0, 0x0001)   // ptb=0, page 0 -> frame 1
	m.StoreEntry(false, 128, 0x0002) // ptb=1, page 0 -> frame 2

	if got := m.Resolve(0, 0, false, false, irq); got>>14 != 1 {
		t.Fatalf("ptb=0 frame = %d, want 1", got>>14)
	}
	if got := m.Resolve(0, 1, false, false, irq); got>>14 != 2 {
		t.Fatalf("ptb=1 frame = %d, want 2", got>>14)
	}
}
