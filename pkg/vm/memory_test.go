package vm

import "testing"

func TestMemorySetGetByte(t *testing.T) {
	m := NewMemory(16)
	if err := m.SetByte(4, 0xAB); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	got, err := m.GetByte(4)
	if err != nil {
		t.Fatalf("GetByte: %v", err)
	}
	if got != 0xAB {
		t.Errorf("GetByte(4) = %#x, want 0xAB", got)
	}
}

func TestMemoryOutOfBounds(t *testing.T) {
	m := NewMemory(8)
	if _, err := m.GetByte(8); err == nil {
		t.Error("GetByte(8): expected out-of-bounds error, got nil")
	}
	if err := m.SetByte(100, 1); err == nil {
		t.Error("SetByte(100): expected out-of-bounds error, got nil")
	}
	if _, err := m.GetBytes(4, 10); err == nil {
		t.Error("GetBytes(4, 10): expected out-of-bounds error, got nil")
	}
}

func TestMemoryReadWriteUintWidths(t *testing.T) {
	tests := []struct {
		size int
		val  uint64
	}{
		{1, 0xAB},
		{2, 0xABCD},
		{4, 0xDEADBEEF},
		{8, 0x0123456789ABCDEF},
	}
	for _, tc := range tests {
		m := NewMemory(32)
		if err := m.WriteUint(0, tc.val, tc.size); err != nil {
			t.Fatalf("WriteUint(size=%d): %v", tc.size, err)
		}
		got, err := m.ReadUint(0, tc.size)
		if err != nil {
			t.Fatalf("ReadUint(size=%d): %v", tc.size, err)
		}
		if got != tc.val {
			t.Errorf("size=%d: got %#x, want %#x", tc.size, got, tc.val)
		}
	}
}

func TestMemoryInvalidWidth(t *testing.T) {
	m := NewMemory(32)
	if _, err := m.ReadUint(0, 3); err == nil {
		t.Error("ReadUint(size=3): expected invalid-width error, got nil")
	}
	if err := m.WriteUint(0, 1, 5); err == nil {
		t.Error("WriteUint(size=5): expected invalid-width error, got nil")
	}
}

func TestMemoryGetBytesMutable(t *testing.T) {
	m := NewMemory(16)
	view, err := m.GetBytesMutable(2, 4)
	if err != nil {
		t.Fatalf("GetBytesMutable: %v", err)
	}
	view[0] = 0x42
	got, err := m.GetByte(2)
	if err != nil {
		t.Fatalf("GetByte: %v", err)
	}
	if got != 0x42 {
		t.Errorf("mutation through handle not visible: got %#x, want 0x42", got)
	}
}
