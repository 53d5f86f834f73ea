package debugger

import (
	"testing"

	"github.com/mylez/mpce/cpu"
	"github.com/mylez/mpce/interrupt"
	"github.com/mylez/mpce/mmio"
	"github.com/mylez/mpce/register"
)

func newTestSession() *Session {
	fabric := mmio.New()
	return &Session{CPU: cpu.New(fabric, interrupt.New()), Fabric: fabric}
}

func TestLookupMatchesUnambiguousPrefix(t *testing.T) {
	c := lookup("reg")
	if c == nil || c.name != "registers" {
		t.Fatalf("lookup(\"reg\") = %v, want registers", c)
	}
}

func TestLookupReturnsNilForUnknownCommand(t *testing.T) {
	if lookup("bogus") != nil {
		t.Fatal("lookup(\"bogus\") should be nil")
	}
}

func TestCompleteNamesFiltersByPrefix(t *testing.T) {
	names := completeNames("s")
	if len(names) != 1 || names[0] != "step" {
		t.Fatalf("completeNames(\"s\") = %v, want [step]", names)
	}
}

func TestCmdQuitRequestsExit(t *testing.T) {
	quit, err := cmdQuit(nil, nil)
	if err != nil || !quit {
		t.Fatalf("cmdQuit = (%v, %v), want (true, nil)", quit, err)
	}
}

func TestCmdStepAdvancesProgramCounter(t *testing.T) {
	s := newTestSession()
	// opcode 0 (noop) at PC 0.
	quit, err := cmdStep(s, nil)
	if err != nil || quit {
		t.Fatalf("cmdStep = (%v, %v)", quit, err)
	}
	if got := s.CPU.Regs.Get(register.PC).Read(); got != 1 {
		t.Fatalf("PC = %d, want 1", got)
	}
}

func TestCmdStepRejectsMalformedCount(t *testing.T) {
	s := newTestSession()
	if _, err := cmdStep(s, []string{"notanumber"}); err == nil {
		t.Fatal("expected error for malformed step count")
	}
}

func TestCmdExamineRequiresAddress(t *testing.T) {
	s := newTestSession()
	if _, err := cmdExamine(s, nil); err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestCmdExamineReadsDataMemory(t *testing.T) {
	s := newTestSession()
	s.Fabric.KernData.StoreW(4, 0xbeef)
	if _, err := cmdExamine(s, []string{"4"}); err != nil {
		t.Fatalf("cmdExamine: %v", err)
	}
}
