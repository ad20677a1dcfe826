package vm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type flusher interface {
	Flush() error
}

func (v *VM) flushOutput() {
	if f, ok := v.outputSink().(flusher); ok {
		_ = f.Flush()
	}
}

func (v *VM) execPrint() error {
	fmt.Fprintf(v.outputSink(), "%d", v.Regs.Get(PRINT))
	v.flushOutput()
	return nil
}

func (v *VM) execPrintString() error {
	addr := v.Regs.Get(PRINT)
	var out []byte
	for {
		b, err := v.Memory.GetByte(addr)
		if err != nil {
			return err
		}
		if b == 0 {
			break
		}
		out = append(out, b)
		addr++
	}
	if _, err := v.outputSink().Write(out); err != nil {
		return v.fault("writing PRINT_STRING output: %v", err)
	}
	v.flushOutput()
	return nil
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// readIntToken consumes leading whitespace, then one decimal token
// (optionally signed), leaving any trailing bytes unread for the next call.
func (v *VM) readIntToken() (int64, ErrorCode) {
	r := v.reader()

	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, EndOfFile
			}
			return 0, GenericError
		}
		if !isSpaceByte(b) {
			_ = r.UnreadByte()
			break
		}
	}

	var tok []byte
	first := true
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, GenericError
		}
		if isSpaceByte(b) {
			break
		}
		if first && (b == '-' || b == '+') {
			tok = append(tok, b)
			first = false
			continue
		}
		if b < '0' || b > '9' {
			_ = r.UnreadByte()
			break
		}
		tok = append(tok, b)
		first = false
	}

	if len(tok) == 0 {
		_, _ = r.ReadString('\n')
		return 0, InvalidInput
	}

	val, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		_, _ = r.ReadString('\n')
		return 0, InvalidInput
	}
	return val, NoError
}

func (v *VM) execInputInt() error {
	val, code := v.readIntToken()
	v.Regs.Set(INPUT, uint64(val))
	v.Regs.Set(ERROR, uint64(code))
	return nil
}

func (v *VM) execInputString() error {
	line, err := v.reader().ReadString('\n')
	if err != nil && err != io.EOF {
		v.Regs.Set(ERROR, uint64(GenericError))
		return nil
	}
	if err == io.EOF && line == "" {
		v.Regs.Set(ERROR, uint64(EndOfFile))
		return nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if pushErr := v.pushBytes([]byte(line)); pushErr != nil {
		return pushErr
	}
	v.Regs.Set(INPUT, uint64(len(line)))
	v.Regs.Set(ERROR, uint64(NoError))
	return nil
}

// execExit captures EXIT's value from inside the handler itself. The
// dispatcher skips its clear-after-instruction step when the next
// instruction is EXIT, so a value stored by the instruction just before is
// still present here; and since it only clears while running is true, no
// clear follows this handler either.
func (v *VM) execExit() error {
	v.exitCode = byte(v.Regs.Get(EXIT))
	v.running = false
	return nil
}
