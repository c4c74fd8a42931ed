package lossless

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/flate"

	"huffpress/internal/container"
)

// Deflate is raw DEFLATE (RFC 1951).
type Deflate struct{}

func (Deflate) Format() container.Format { return container.FormatDeflate }

// DeflateLevel converts a percentage to a flate level: 9*p/100 bounded to
// [1, 9].
func DeflateLevel(percentage int) int {
	return max(flate.BestSpeed, min(flate.BestCompression, 9*percentage/100))
}

func (Deflate) Encode(data []byte, percentage int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, DeflateLevel(percentage))
	if err != nil {
		return nil, fmt.Errorf("deflate: create writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (Deflate) Decode(payload []byte, originalLength uint64) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()

	return readExact("inflate", r, originalLength)
}
