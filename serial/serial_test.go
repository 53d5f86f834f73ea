package serial

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mylez/mpce/interrupt"
)

func TestMMIOStoreQueuesOutputByte(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out)
	d.MMIOStore(OffsetData, uint16('M'))

	b, ok := d.popOut()
	if !ok || b != 'M' {
		t.Fatalf("popOut() = %v, %v, want 'M', true", b, ok)
	}
}

func TestMMIOLoadStatusReflectsInputQueue(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out)
	if got := d.MMIOLoad(OffsetStatus); got != 0 {
		t.Fatalf("status = %d, want 0 on empty queue", got)
	}
	d.pushIn('x')
	if got := d.MMIOLoad(OffsetStatus); got != 1 {
		t.Fatalf("status = %d, want 1 on non-empty queue", got)
	}
}

func TestMMIOLoadDataPopsFront(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out)
	d.pushIn('a')
	d.pushIn('b')
	if got := d.MMIOLoad(OffsetData); got != uint16('a') {
		t.Fatalf("first pop = %d, want 'a'", got)
	}
	if got := d.MMIOLoad(OffsetData); got != uint16('b') {
		t.Fatalf("second pop = %d, want 'b'", got)
	}
}

func TestIRQNotifySignalsIRQ1WhenInputPending(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out)
	irq := interrupt.New()

	d.IRQNotify(irq)
	if irq.IsSignalled(interrupt.IRQ1) {
		t.Fatal("unexpected IRQ1 with empty input queue")
	}

	d.pushIn('z')
	d.IRQNotify(irq)
	if !irq.IsSignalled(interrupt.IRQ1) {
		t.Fatal("expected IRQ1 with pending input")
	}
}

func TestConsoleLoopsMoveBytesAndStopOnQ(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hiQ")
	d := New(in, &out)

	d.StartConsole()
	d.MMIOStore(OffsetData, uint16('!'))

	done := make(chan struct{})
	go func() {
		d.JoinConsole()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("console loops did not stop after 'Q'")
	}

	if got := out.String(); got != "!" {
		t.Fatalf("out = %q, want %q", got, "!")
	}
}
