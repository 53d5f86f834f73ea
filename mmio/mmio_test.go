package mmio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/serial"
)

func TestGetCodeSelectsByMode(t *testing.T) {
	f := New()
	if f.GetCode(false) != f.KernCode {
		t.Fatal("GetCode(false) should return KernCode")
	}
	if f.GetCode(true) != f.UserCode {
		t.Fatal("GetCode(true) should return UserCode")
	}
}

func TestNewSizedCapsKernelCodeCapacity(t *testing.T) {
	f := NewSized(0x100)
	if got := f.KernCode.Capacity(); got != 0x100 {
		t.Fatalf("KernCode.Capacity() = %#x, want 0x100", got)
	}
}

func TestNewSizedClampsToArchitecturalMaximum(t *testing.T) {
	f := NewSized(KernCodeWords + 1)
	if got := f.KernCode.Capacity(); got != KernCodeWords {
		t.Fatalf("KernCode.Capacity() = %#x, want %#x", got, KernCodeWords)
	}
}

func TestSerialDeviceWiredIntoKernDataMMIO(t *testing.T) {
	f := New()
	var out bytes.Buffer
	dev := serial.New(strings.NewReader(""), &out)
	f.RegisterDevice(dev)

	// Scenario 1 from spec.md: byte store to 0xf000 reaches the serial out queue.
	f.KernData.StoreB(0xf000, 'M')
	if b, ok := dev.PopOut(); !ok || b != 'M' {
		t.Fatalf("serial out = %v, %v, want 'M', true", b, ok)
	}

	irq := interrupt.New()
	f.IRQNotify(irq)
	if irq.IsSignalled(interrupt.IRQ1) {
		t.Fatal("no input queued, IRQ1 should not be signalled")
	}
}
