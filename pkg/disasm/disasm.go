// Package disasm renders a bytecode buffer back into mnemonic-plus-operand
// text, one instruction per line. It shares the opcode constants and
// mnemonic table with the dispatcher in pkg/vm, so opcode numbering and
// names cannot drift apart; operand layouts are decoded by its own switch.
// It is otherwise a pure, stateless, single-pass text renderer with no
// interaction with a running VM.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"vmcore/pkg/vm"
)

// Disassemble renders code into one line per instruction, formatted as
// "<offset>: MNEMONIC operand, operand, ...".
func Disassemble(code []byte) (string, error) {
	var sb strings.Builder
	pc := 0

	for pc < len(code) {
		start := pc
		opByte := code[pc]
		pc++

		op := vm.Opcode(opByte)
		if !op.Valid() {
			return sb.String(), fmt.Errorf("disasm: unknown opcode %#x at offset %d", opByte, start)
		}

		operands, n, err := decodeOperands(op, code[pc:])
		if err != nil {
			return sb.String(), fmt.Errorf("disasm: %w (offset %d)", err, start)
		}
		pc += n

		fmt.Fprintf(&sb, "%d: %s", start, op)
		if len(operands) > 0 {
			sb.WriteString(" ")
			sb.WriteString(strings.Join(operands, ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// decodeOperands reads the operand bytes for op from buf (which begins
// immediately after the opcode byte) and returns their text rendering plus
// the number of bytes consumed.
func decodeOperands(op vm.Opcode, buf []byte) ([]string, int, error) {
	var (
		n   int
		out []string
	)

	need := func(k int) error {
		if n+k > len(buf) {
			return fmt.Errorf("truncated operand bytes for %s", op)
		}
		return nil
	}

	readReg := func() (vm.Register, error) {
		if err := need(1); err != nil {
			return 0, err
		}
		r := vm.Register(buf[n])
		n++
		return r, nil
	}

	readSize := func() (int, error) {
		if err := need(1); err != nil {
			return 0, err
		}
		s := int(buf[n])
		n++
		return s, nil
	}

	readConst := func(size int) (uint64, error) {
		if err := need(size); err != nil {
			return 0, err
		}
		v := decodeWidth(buf[n : n+size])
		n += size
		return v, nil
	}

	readAddr := func() (uint64, error) {
		if err := need(8); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[n : n+8])
		n += 8
		return v, nil
	}

	appendReg := func(r vm.Register) { out = append(out, r.String()) }
	appendAddr := func(a uint64) { out = append(out, fmt.Sprintf("[%#x]", a)) }
	appendConst := func(v uint64, size int) { out = append(out, fmt.Sprintf("%#x(%d)", v, size)) }

	switch op {
	case vm.OpADD, vm.OpSUB, vm.OpMUL, vm.OpDIV, vm.OpMOD, vm.OpNoOperation, vm.OpLabel,
		vm.OpPrint, vm.OpPrintString, vm.OpInputInt, vm.OpInputString, vm.OpExit:
		// no operands

	case vm.OpIncReg, vm.OpDecReg:
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendReg(r)

	case vm.OpIncAddrInReg, vm.OpDecAddrInReg:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r)

	case vm.OpIncAddrLiteral, vm.OpDecAddrLiteral:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendAddr(addr)

	case vm.OpMoveIntoRegFromReg:
		dst, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		src, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendReg(dst)
		appendReg(src)

	case vm.OpMoveIntoRegFromAddrInReg, vm.OpMoveIntoAddrInRegFromReg,
		vm.OpMoveIntoAddrInRegFromAddrInReg:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r1, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		r2, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r1)
		appendReg(r2)

	case vm.OpMoveIntoRegFromConst, vm.OpMoveIntoAddrInRegFromConst:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		val, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r)
		appendConst(val, size)

	case vm.OpMoveIntoRegFromAddrLiteral, vm.OpMoveIntoAddrInRegFromAddrLiteral:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r)
		appendAddr(addr)

	case vm.OpMoveIntoAddrLiteralFromReg, vm.OpMoveIntoAddrLiteralFromAddrInReg:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendAddr(addr)
		appendReg(r)

	case vm.OpMoveIntoAddrLiteralFromConst:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		val, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendAddr(addr)
		appendConst(val, size)

	case vm.OpMoveIntoAddrLiteralFromAddrLiteral:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		dst, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		src, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendAddr(dst)
		appendAddr(src)

	case vm.OpPushFromReg, vm.OpPopIntoReg:
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendReg(r)

	case vm.OpPushFromAddrInReg, vm.OpPopIntoAddrInReg:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r)

	case vm.OpPushFromConst:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		val, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendConst(val, size)

	case vm.OpPushFromAddrLiteral, vm.OpPopIntoAddrLiteral:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendAddr(addr)

	case vm.OpJump:
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		appendAddr(addr)

	case vm.OpJumpIfTrueReg, vm.OpJumpIfFalseReg:
		addr, err := readAddr()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendAddr(addr)
		appendReg(r)

	case vm.OpCompareRegReg:
		r1, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		r2, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendReg(r1)
		appendReg(r2)

	case vm.OpCompareRegConst:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		val, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendReg(r)
		appendConst(val, size)

	case vm.OpCompareConstReg:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		val, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		r, err := readReg()
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendConst(val, size)
		appendReg(r)

	case vm.OpCompareConstConst:
		size, err := readSize()
		if err != nil {
			return nil, 0, err
		}
		left, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		right, err := readConst(size)
		if err != nil {
			return nil, 0, err
		}
		appendConst(uint64(size), 1)
		appendConst(left, size)
		appendConst(right, size)

	default:
		return nil, 0, fmt.Errorf("unhandled opcode %s", op)
	}

	return out, n, nil
}

func decodeWidth(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		return 0
	}
}
