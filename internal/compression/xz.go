// Package compression provides transparent xz handling for interchange
// files. Paths ending in .xz are compressed on write and decompressed on
// read; everything else passes through untouched.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/code-soul/chromapath/internal/security"
)

// maxDecompressedSize caps how far an xz stream may expand.
const maxDecompressedSize = 100 * 1024 * 1024

// IsXz reports whether path names an xz-compressed file.
func IsXz(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xz")
}

// Decompress reads a complete xz stream from r, capped at 100MB.
func Decompress(r io.Reader) ([]byte, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}

	data, err := io.ReadAll(security.NewLimitedReader(xzr, maxDecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}
	return data, nil
}

// Compress writes data to w as a single xz stream.
func Compress(w io.Writer, data []byte) error {
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := xzw.Write(data); err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// ReadFile reads path, transparently decompressing when it carries an .xz
// suffix.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 - Interchange file path supplied by user
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if !IsXz(path) {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}
	return Decompress(f)
}

// WriteFile writes data to path, transparently compressing when it carries
// an .xz suffix.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if !IsXz(path) {
		return os.WriteFile(path, data, perm) // #nosec G306 - Interchange files are user-owned output
	}

	var buf bytes.Buffer
	if err := Compress(&buf, data); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), perm) // #nosec G306 - Interchange files are user-owned output
}
