// Package loader reads a bytecode file from disk into a byte buffer. It has
// no knowledge of opcodes; it is the thin collaborator the VM's host-facing
// API expects to hand it a program.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the bytecode file at path and returns its raw bytes.
func Load(path string) ([]byte, error) {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading bytecode file %q: %w", fullPath, err)
	}
	return data, nil
}

// Save writes code to path, creating or truncating the file.
func Save(path string, code []byte) error {
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return fmt.Errorf("writing bytecode file %q: %w", path, err)
	}
	return nil
}
