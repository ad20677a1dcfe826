package vm

import (
	"io"
	"testing"
)

// newSilentVM creates a VM that discards PRINT output, mirroring the
// teacher's silent-CPU benchmark fixture.
func newSilentVM() *VM {
	v := NewVM(1<<16, 0)
	v.Output = io.Discard
	return v
}

// BenchmarkVM_NOP measures raw dispatch overhead by running a block of
// NO_OPERATION instructions followed by EXIT.
func BenchmarkVM_NOP(b *testing.B) {
	const nopCount = 1000

	prog := make([]byte, 0, nopCount+1)
	for i := 0; i < nopCount; i++ {
		prog = append(prog, byte(OpNoOperation))
	}
	prog = append(prog, byte(OpExit))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := newSilentVM()
		if _, err := v.Execute(prog, false); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}

// BenchmarkVM_ALU_ADD measures ADD instruction throughput.
func BenchmarkVM_ALU_ADD(b *testing.B) {
	const addCount = 1000

	prog := make([]byte, 0, addCount+1)
	for i := 0; i < addCount; i++ {
		prog = append(prog, byte(OpADD))
	}
	prog = append(prog, byte(OpExit))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := newSilentVM()
		v.Regs.Set(A, 1)
		v.Regs.Set(B, 1)
		if _, err := v.Execute(prog, false); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}
