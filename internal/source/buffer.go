package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
)

// ErrNotLoaded is returned when a buffer is queried before any content was
// loaded into it.
var ErrNotLoaded = errors.New("source: buffer not loaded")

// Buffer holds the lines of one file. A zero Buffer (or one returned by
// NewBuffer) is in the not-loaded state until Load, LoadFile or SetLines.
type Buffer struct {
	path   string
	lines  Lines
	loaded bool
	flags  FileFlags
}

// NewBuffer creates an empty, not yet loaded buffer for path.
func NewBuffer(path string) *Buffer {
	return &Buffer{path: normalizePath(path)}
}

// NewVirtualBuffer creates a loaded buffer from in-memory content.
func NewVirtualBuffer(name string, content []byte) *Buffer {
	b := NewBuffer(name)
	b.Load(content)
	b.flags |= FileVirtual
	return b
}

// Path returns the buffer path.
func (b *Buffer) Path() string {
	return b.path
}

// Flags returns load-time metadata.
func (b *Buffer) Flags() FileFlags {
	return b.flags
}

// Loaded reports whether the buffer has content.
func (b *Buffer) Loaded() bool {
	return b != nil && b.loaded
}

// Load replaces the buffer content with the decoded lines of content.
func (b *Buffer) Load(content []byte) {
	decoded, hadBOM := decodeBOM(content)
	lines := SplitLines(decoded)

	b.flags &^= FileHadBOM | FileHadCRLF
	if hadBOM {
		b.flags |= FileHadBOM
	}
	if hasCRLF(lines) {
		b.flags |= FileHadCRLF
	}
	b.lines = lines
	b.loaded = true
}

// LoadFile reads the buffer path from disk.
func (b *Buffer) LoadFile() error {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("load %s: %w", b.path, err)
	}
	b.Load(content)
	return nil
}

// Lines returns the current lines or ErrNotLoaded.
// The returned slice must not be modified; use Clone for a private copy.
func (b *Buffer) Lines() (Lines, error) {
	if !b.Loaded() {
		return nil, ErrNotLoaded
	}
	return b.lines, nil
}

// SetLines replaces the buffer content wholesale.
func (b *Buffer) SetLines(lines Lines) {
	if lines == nil {
		lines = Lines{}
	}
	b.lines = lines
	b.loaded = true
}

// Bytes renders the buffer, re-adding a byte order mark stripped on load.
func (b *Buffer) Bytes() ([]byte, error) {
	if !b.Loaded() {
		return nil, ErrNotLoaded
	}
	data := b.lines.Bytes()
	if b.flags.Has(FileHadBOM) {
		return encodeBOM(data)
	}
	return data, nil
}

// Hash returns the SHA-256 digest of the rendered content.
func (b *Buffer) Hash() ([32]byte, error) {
	data, err := b.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Save writes the buffer to its path, keeping the permissions of an
// existing file.
func (b *Buffer) Save() error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(b.path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(b.path, data, mode.Perm()); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	return nil
}

// String renders the lines without a byte order mark.
func (b *Buffer) String() string {
	if !b.Loaded() {
		return ""
	}
	return b.lines.Join()
}

func hasCRLF(lines Lines) bool {
	for _, line := range lines {
		if _, term := SplitTerminator(line); term == "\r\n" {
			return true
		}
	}
	return false
}
