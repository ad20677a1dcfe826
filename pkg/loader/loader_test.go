package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")

	want := []byte{0x01, 0x02, 0x03, 0xFF}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if err == nil {
		t.Fatal("Load: expected error for missing file, got nil")
	}
	if !os.IsNotExist(errUnwrap(err)) {
		t.Errorf("Load: expected a not-exist error, got %v", err)
	}
}

// errUnwrap peels back the single layer of fmt.Errorf wrapping Load applies.
func errUnwrap(err error) error {
	type unwrapper interface {
		Unwrap() error
	}
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return err
}
