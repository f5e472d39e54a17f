package source

import (
	"bytes"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeBOM strips a leading UTF-8 byte order mark.
// Content without a BOM is returned as is, byte for byte.
func decodeBOM(content []byte) ([]byte, bool) {
	if !bytes.HasPrefix(content, utf8BOM) {
		return content, false
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), content)
	if err != nil {
		return content[len(utf8BOM):], true
	}
	return out, true
}

func encodeBOM(content []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewEncoder(), content)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func normalizePath(p string) string {
	if p == "" {
		return ""
	}
	// единый вид путей в отчётах
	return filepath.ToSlash(filepath.Clean(p))
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}

// RelativePath returns path relative to baseDir, or path itself when it
// lies outside baseDir.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return normalizePath(absPath), nil
	}
	if rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}
