package vm

// Register identifies one of the 13 register-file cells by ordinal. The
// ordinal values are part of the wire format: an instruction encodes a
// register operand as a single byte equal to its ordinal.
type Register byte

const (
	A Register = iota
	B
	C
	D
	EXIT
	INPUT
	ERROR
	PRINT
	STACK_POINTER
	PROGRAM_COUNTER
	ZERO_FLAG
	SIGN_FLAG
	REMAINDER_FLAG

	numRegisters = 13
)

var registerNames = [numRegisters]string{
	A:               "A",
	B:               "B",
	C:               "C",
	D:               "D",
	EXIT:            "EXIT",
	INPUT:           "INPUT",
	ERROR:           "ERROR",
	PRINT:           "PRINT",
	STACK_POINTER:   "STACK_POINTER",
	PROGRAM_COUNTER: "PROGRAM_COUNTER",
	ZERO_FLAG:       "ZERO_FLAG",
	SIGN_FLAG:       "SIGN_FLAG",
	REMAINDER_FLAG:  "REMAINDER_FLAG",
}

// String renders a register by name, falling back to its ordinal if it is
// somehow out of the defined range (should not happen for well-formed
// bytecode; byte_to_register is undefined behavior on bad ordinals at the
// guest level per the instruction decoder's operand-fetching conventions).
func (r Register) String() string {
	if int(r) < numRegisters {
		return registerNames[r]
	}
	return "REG?"
}

// Valid reports whether r names one of the 13 defined cells.
func (r Register) Valid() bool {
	return int(r) < numRegisters
}

// RegisterFile is the fixed array of 13 64-bit cells.
type RegisterFile struct {
	cells [numRegisters]uint64
}

// Get reads a cell. Reading an invalid ordinal returns 0; callers at the
// dispatcher boundary are expected to validate first where it matters.
func (rf *RegisterFile) Get(r Register) uint64 {
	if !r.Valid() {
		return 0
	}
	return rf.cells[r]
}

// Set writes a cell.
func (rf *RegisterFile) Set(r Register, v uint64) {
	if !r.Valid() {
		return
	}
	rf.cells[r] = v
}

// SetArithmeticFlags sets ZERO_FLAG, SIGN_FLAG, and REMAINDER_FLAG from the
// result of an arithmetic or compare operation. remainder is 0 for every
// operation except DIV.
func (rf *RegisterFile) SetArithmeticFlags(result uint64, remainder uint64) {
	if result == 0 {
		rf.Set(ZERO_FLAG, 1)
	} else {
		rf.Set(ZERO_FLAG, 0)
	}
	if int64(result) < 0 {
		rf.Set(SIGN_FLAG, 1)
	} else {
		rf.Set(SIGN_FLAG, 0)
	}
	rf.Set(REMAINDER_FLAG, remainder)
}
