package disasm

import (
	"strings"
	"testing"

	"github.com/mylez/mpce/cpu"
)

func TestInstructionDecodesRegisterOperands(t *testing.T) {
	// addi r1, r0, imm ; reg_x=1, reg_y=0, reg_z=7 (imm)
	inst := cpu.OpAddImm<<8 | uint16(1) | uint16(0)<<3 | uint16(7)<<6
	text, n := Instruction([]uint16{inst, 0x004d})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if !strings.Contains(text, "addi") {
		t.Fatalf("text %q missing mnemonic", text)
	}
	if !strings.Contains(text, "r1") || !strings.Contains(text, "r0") || !strings.Contains(text, "imm") {
		t.Fatalf("text %q missing operand names", text)
	}
	if !strings.Contains(text, "0x4d") {
		t.Fatalf("text %q missing decoded immediate", text)
	}
}

func TestInstructionNoImmConsumesOneWord(t *testing.T) {
	inst := cpu.OpAdd<<8 | uint16(1) | uint16(2)<<3 | uint16(3)<<6
	text, n := Instruction([]uint16{inst})
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if !strings.Contains(text, "add") {
		t.Fatalf("text %q missing mnemonic", text)
	}
}

func TestInstructionSpecialRegisterReadUsesOnlyX(t *testing.T) {
	inst := cpu.OpReadStatus<<8 | uint16(2)
	text, n := Instruction([]uint16{inst})
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if !strings.Contains(text, "rd.status") || !strings.Contains(text, "r2") {
		t.Fatalf("text %q missing expected operand", text)
	}
}

func TestInstructionEretToggleOpcodesShareMnemonic(t *testing.T) {
	text1, _ := Instruction([]uint16{cpu.OpReadEretToggle << 8})
	text2, _ := Instruction([]uint16{cpu.OpReadEretToggle2 << 8})
	if !strings.Contains(text1, "rd.eret.m") || !strings.Contains(text2, "rd.eret.m") {
		t.Fatalf("e8/ea = %q / %q, want both rd.eret.m", text1, text2)
	}
}

func TestInstructionSetModeHasNoOperands(t *testing.T) {
	text, n := Instruction([]uint16{cpu.OpSetMode << 8})
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if strings.TrimSpace(text) != "set.mode" {
		t.Fatalf("text = %q, want just the mnemonic", text)
	}
}

func TestInstructionUnmappedOpcodeDumpsRawWord(t *testing.T) {
	text, n := Instruction([]uint16{0x0200})
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if !strings.Contains(text, "dw") {
		t.Fatalf("text %q should fall back to a raw word dump", text)
	}
}

func TestInstructionEmptyInputReturnsNothing(t *testing.T) {
	text, n := Instruction(nil)
	if n != 0 || text != "" {
		t.Fatalf("Instruction(nil) = (%q, %d), want (\"\", 0)", text, n)
	}
}
