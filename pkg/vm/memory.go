package vm

import (
	"encoding/binary"
	"fmt"
)

// Memory is a flat, byte-addressable buffer of fixed size. It has no notion
// of opcodes or registers. The VM uses one Memory for its main memory and a
// second one for the video region.
type Memory struct {
	buf []byte
}

// NewMemory allocates a zero-filled buffer of the given size.
func NewMemory(size int) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// Len reports the size of the buffer in bytes.
func (m *Memory) Len() int {
	return len(m.buf)
}

// SetByte writes a single byte at addr.
func (m *Memory) SetByte(addr uint64, b byte) error {
	if addr >= uint64(len(m.buf)) {
		return fmt.Errorf("memory: address %#x out of bounds (size %d)", addr, len(m.buf))
	}
	m.buf[addr] = b
	return nil
}

// SetBytes copies src into memory starting at addr. There is no overlap
// guarantee beyond a forward copy.
func (m *Memory) SetBytes(addr uint64, src []byte) error {
	end := addr + uint64(len(src))
	if end > uint64(len(m.buf)) || end < addr {
		return fmt.Errorf("memory: write of %d bytes at %#x out of bounds (size %d)", len(src), addr, len(m.buf))
	}
	copy(m.buf[addr:end], src)
	return nil
}

// GetByte reads a single byte at addr.
func (m *Memory) GetByte(addr uint64) (byte, error) {
	if addr >= uint64(len(m.buf)) {
		return 0, fmt.Errorf("memory: address %#x out of bounds (size %d)", addr, len(m.buf))
	}
	return m.buf[addr], nil
}

// GetBytes returns a copy of n bytes starting at addr.
func (m *Memory) GetBytes(addr uint64, n int) ([]byte, error) {
	end := addr + uint64(n)
	if end > uint64(len(m.buf)) || end < addr {
		return nil, fmt.Errorf("memory: read of %d bytes at %#x out of bounds (size %d)", n, addr, len(m.buf))
	}
	out := make([]byte, n)
	copy(out, m.buf[addr:end])
	return out, nil
}

// GetBytesMutable returns a live slice view into the buffer starting at addr,
// for in-place updates (e.g. INC_ADDR_*). Callers must not retain the handle
// across an instruction boundary.
func (m *Memory) GetBytesMutable(addr uint64, n int) ([]byte, error) {
	end := addr + uint64(n)
	if end > uint64(len(m.buf)) || end < addr {
		return nil, fmt.Errorf("memory: mutable view of %d bytes at %#x out of bounds (size %d)", n, addr, len(m.buf))
	}
	return m.buf[addr:end], nil
}

// widthOK reports whether size is one of the four widths the ISA allows for
// width-parametric operations.
func widthOK(size int) bool {
	switch size {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// ReadUint reads a little-endian unsigned integer of the given width (1, 2,
// 4, or 8 bytes) at addr, zero-extended to 64 bits.
func (m *Memory) ReadUint(addr uint64, size int) (uint64, error) {
	if !widthOK(size) {
		return 0, fmt.Errorf("memory: invalid width %d", size)
	}
	b, err := m.GetBytes(addr, size)
	if err != nil {
		return 0, err
	}
	return decodeUint(b), nil
}

// WriteUint writes the low size bytes of v, little-endian, at addr.
func (m *Memory) WriteUint(addr uint64, v uint64, size int) error {
	if !widthOK(size) {
		return fmt.Errorf("memory: invalid width %d", size)
	}
	return m.SetBytes(addr, encodeUint(v, size))
}

// decodeUint interprets b (len 1, 2, 4, or 8) as a little-endian unsigned
// integer, zero-extended to 64 bits. Callers must pre-validate len(b).
func decodeUint(b []byte) uint64 {
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
		panic(fmt.Sprintf("vm: decodeUint: unsupported width %d", len(b)))
	}
}

// encodeUint renders the low size bytes of v as little-endian.
func encodeUint(v uint64, size int) []byte {
	out := make([]byte, size)
	putUint(out, v, size)
	return out
}

// putUint writes the low size bytes of v, little-endian, into dst in place.
// dst must have length size; this is the in-place counterpart to encodeUint,
// used by callers holding a mutable view into Memory's backing buffer.
func putUint(dst []byte, v uint64, size int) {
	switch size {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(dst, v)
	default:
		panic(fmt.Sprintf("vm: putUint: unsupported width %d", size))
	}
}
