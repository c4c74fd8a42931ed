// Package compress provides gzip helpers for byte slices and HTTP middleware
// for transparent request/response compression.
package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// Compress compresses a byte slice using gzip.
func Compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("write gzip data: %w", err)
	}
	// Close flushes the footer; without it the stream is incomplete.
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return b.Bytes(), nil
}

// Decompress decompresses a gzip-compressed byte slice.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer r.Close()

	var b bytes.Buffer
	if _, err = b.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read gzip data: %w", err)
	}
	return b.Bytes(), nil
}
