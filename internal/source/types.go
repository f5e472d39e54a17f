package source

// FileFlags encodes metadata about a loaded buffer.
type FileFlags uint8

const (
	// FileVirtual indicates the buffer was filled from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a UTF-8 byte order mark that was stripped on load.
	FileHadBOM
	// FileHadCRLF marks a buffer with at least one \r\n terminator.
	FileHadCRLF
)

// Has reports whether all bits of mask are set.
func (f FileFlags) Has(mask FileFlags) bool {
	return f&mask == mask
}
