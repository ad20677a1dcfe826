package vm

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
)

// VM ties memory, the register file, and the host I/O streams together and
// drives the fetch-decode-execute loop.
type VM struct {
	Memory *Memory
	Video  *Memory
	Regs   RegisterFile

	// Input and Output are where INPUT_*/PRINT* interrupts read and write.
	// If nil, os.Stdin/os.Stdout are used, mirroring the teacher CPU's
	// Output-with-stdout-fallback convention (here generalized to cover
	// input as well).
	Input  io.Reader
	Output io.Writer

	running  bool
	exitCode byte

	in  *bufio.Reader
	log *log.Logger
}

// NewVM constructs a VM with a stackSizeBytes-byte memory region and a
// separate, unaddressed videoSizeBytes-byte video region reserved for future
// instructions.
func NewVM(stackSizeBytes, videoSizeBytes int) *VM {
	return &VM{
		Memory: NewMemory(stackSizeBytes),
		Video:  NewMemory(videoSizeBytes),
	}
}

func (v *VM) inputSink() io.Reader {
	if v.Input != nil {
		return v.Input
	}
	return os.Stdin
}

func (v *VM) outputSink() io.Writer {
	if v.Output != nil {
		return v.Output
	}
	return os.Stdout
}

func (v *VM) reader() *bufio.Reader {
	if v.in == nil {
		v.in = bufio.NewReader(v.inputSink())
	}
	return v.in
}

// dispatchTable is the dense, 44-entry, opcode-byte-indexed dispatch table.
// It is built once per Execute call since handlers close over no VM-specific
// state beyond the receiver.
func dispatchTable() [numOpcodes]func(*VM) error {
	return [numOpcodes]func(*VM) error{
		OpADD: (*VM).execADD,
		OpSUB: (*VM).execSUB,
		OpMUL: (*VM).execMUL,
		OpDIV: (*VM).execDIV,
		OpMOD: (*VM).execMOD,

		OpIncReg:         (*VM).execIncReg,
		OpIncAddrInReg:   (*VM).execIncAddrInReg,
		OpIncAddrLiteral: (*VM).execIncAddrLiteral,
		OpDecReg:         (*VM).execDecReg,
		OpDecAddrInReg:   (*VM).execDecAddrInReg,
		OpDecAddrLiteral: (*VM).execDecAddrLiteral,

		OpNoOperation: (*VM).execNop,

		OpMoveIntoRegFromReg:                 (*VM).execMoveRegFromReg,
		OpMoveIntoRegFromAddrInReg:           (*VM).execMoveRegFromAddrInReg,
		OpMoveIntoRegFromConst:               (*VM).execMoveRegFromConst,
		OpMoveIntoRegFromAddrLiteral:         (*VM).execMoveRegFromAddrLiteral,
		OpMoveIntoAddrInRegFromReg:           (*VM).execMoveAddrInRegFromReg,
		OpMoveIntoAddrInRegFromAddrInReg:     (*VM).execMoveAddrInRegFromAddrInReg,
		OpMoveIntoAddrInRegFromConst:         (*VM).execMoveAddrInRegFromConst,
		OpMoveIntoAddrInRegFromAddrLiteral:   (*VM).execMoveAddrInRegFromAddrLiteral,
		OpMoveIntoAddrLiteralFromReg:         (*VM).execMoveAddrLiteralFromReg,
		OpMoveIntoAddrLiteralFromAddrInReg:   (*VM).execMoveAddrLiteralFromAddrInReg,
		OpMoveIntoAddrLiteralFromConst:       (*VM).execMoveAddrLiteralFromConst,
		OpMoveIntoAddrLiteralFromAddrLiteral: (*VM).execMoveAddrLiteralFromAddrLiteral,

		OpPushFromReg:         (*VM).execPushFromReg,
		OpPushFromAddrInReg:   (*VM).execPushFromAddrInReg,
		OpPushFromConst:       (*VM).execPushFromConst,
		OpPushFromAddrLiteral: (*VM).execPushFromAddrLiteral,
		OpPopIntoReg:          (*VM).execPopIntoReg,
		OpPopIntoAddrInReg:    (*VM).execPopIntoAddrInReg,
		OpPopIntoAddrLiteral:  (*VM).execPopIntoAddrLiteral,

		OpLabel: (*VM).execLabel,

		OpJump:            (*VM).execJump,
		OpJumpIfTrueReg:   (*VM).execJumpIfTrueReg,
		OpJumpIfFalseReg:  (*VM).execJumpIfFalseReg,

		OpCompareRegReg:     (*VM).execCompareRegReg,
		OpCompareRegConst:   (*VM).execCompareRegConst,
		OpCompareConstReg:   (*VM).execCompareConstReg,
		OpCompareConstConst: (*VM).execCompareConstConst,

		OpPrint:       (*VM).execPrint,
		OpPrintString: (*VM).execPrintString,
		OpInputInt:    (*VM).execInputInt,
		OpInputString: (*VM).execInputString,

		OpExit: (*VM).execExit,
	}
}

// Execute loads program at the current stack pointer (0, on a fresh VM) and
// runs until EXIT halts the loop. The returned byte is the EXIT register's
// value as of the moment handle_exit ran. The returned error is non-nil only
// for fatal, host-level faults; guest-recoverable conditions are reported
// through the ERROR register instead.
func (v *VM) Execute(program []byte, verbose bool) (byte, error) {
	if verbose {
		v.log = log.New(os.Stderr, "", 0)
	}

	sp := v.Regs.Get(STACK_POINTER)
	if err := v.Memory.SetBytes(sp, program); err != nil {
		return 0, faultf(v.Regs.Get(PROGRAM_COUNTER), 0, "loading program: %w", err)
	}
	v.Regs.Set(STACK_POINTER, sp+uint64(len(program)))
	v.Regs.Set(PROGRAM_COUNTER, 0)

	table := dispatchTable()
	v.running = true

	for v.running {
		pc := v.Regs.Get(PROGRAM_COUNTER)
		opByte, err := v.Memory.GetByte(pc)
		if err != nil {
			return 0, faultf(pc, 0, "fetching opcode: %w", err)
		}
		v.Regs.Set(PROGRAM_COUNTER, pc+1)

		op := Opcode(opByte)
		if !op.Valid() {
			return 0, faultf(pc, opByte, "unknown opcode")
		}

		if v.log != nil {
			v.log.Printf("pc=%d op=%s", v.Regs.Get(PROGRAM_COUNTER), op)
		}

		handler := table[op]
		if err := handler(v); err != nil {
			var fault *VMFault
			if errors.As(err, &fault) {
				fault.Opcode = opByte
				return 0, fault
			}
			return 0, faultf(pc, opByte, "%w", err)
		}

		// EXIT is volatile: it is cleared after every instruction, except
		// when the next instruction to run is EXIT itself, so that a value
		// the guest stores into EXIT right before halting reaches the caller.
		if v.running {
			next, err := v.Memory.GetByte(v.pc())
			if err != nil || Opcode(next) != OpExit {
				v.Regs.Set(EXIT, 0)
			}
		}
	}

	return v.exitCode, nil
}

// --- operand-fetching primitives ---

func (v *VM) pc() uint64 {
	return v.Regs.Get(PROGRAM_COUNTER)
}

func (v *VM) advancePC(n uint64) {
	v.Regs.Set(PROGRAM_COUNTER, v.pc()+n)
}

// nextByte reads one byte at PC and advances PC by 1.
func (v *VM) nextByte() (byte, error) {
	b, err := v.Memory.GetByte(v.pc())
	if err != nil {
		return 0, err
	}
	v.advancePC(1)
	return b, nil
}

// nextBytes reads n bytes at PC and advances PC by n.
func (v *VM) nextBytes(n int) ([]byte, error) {
	b, err := v.Memory.GetBytes(v.pc(), n)
	if err != nil {
		return nil, err
	}
	v.advancePC(uint64(n))
	return b, nil
}

// nextAddress reads an 8-byte host-native address at PC and advances PC by 8.
func (v *VM) nextAddress() (uint64, error) {
	b, err := v.nextBytes(8)
	if err != nil {
		return 0, err
	}
	return decodeUint(b), nil
}

// nextRegister reads one register-ordinal byte at PC and advances PC by 1.
func (v *VM) nextRegister() (Register, error) {
	b, err := v.nextByte()
	if err != nil {
		return 0, err
	}
	return Register(b), nil
}

// nextSize reads one size byte at PC and advances PC by 1, validating it is
// one of the four widths the ISA allows.
func (v *VM) nextSize() (int, error) {
	b, err := v.nextByte()
	if err != nil {
		return 0, err
	}
	if !widthOK(int(b)) {
		return 0, faultf(v.pc()-1, 0, "invalid operand width %d", b)
	}
	return int(b), nil
}

func (v *VM) fault(format string, args ...any) error {
	return faultf(v.pc(), 0, format, args...)
}
