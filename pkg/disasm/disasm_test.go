package disasm

import (
	"strings"
	"testing"

	"vmcore/pkg/vm"
)

func TestDisassembleSimpleProgram(t *testing.T) {
	prog := []byte{
		byte(vm.OpMoveIntoRegFromConst), 8, byte(vm.OpPrint),
		0x2A, 0, 0, 0, 0, 0, 0, 0,
		byte(vm.OpPrint),
		byte(vm.OpExit),
	}

	text, err := Disassemble(prog)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	for _, want := range []string{"MOVE_INTO_REG_FROM_CONST", "PRINT", "EXIT"} {
		if !strings.Contains(text, want) {
			t.Errorf("disassembly missing %q:\n%s", want, text)
		}
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	_, err := Disassemble([]byte{0xFE})
	if err == nil {
		t.Fatal("Disassemble: expected error for unknown opcode, got nil")
	}
}

func TestDisassembleTruncatedOperand(t *testing.T) {
	_, err := Disassemble([]byte{byte(vm.OpMoveIntoRegFromConst), 8})
	if err == nil {
		t.Fatal("Disassemble: expected error for truncated operand, got nil")
	}
}
