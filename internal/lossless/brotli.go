package lossless

import (
	"bytes"
	"fmt"
	"math"

	"github.com/andybalholm/brotli"

	"huffpress/internal/container"
)

// Brotli is a raw brotli stream (RFC 7932).
type Brotli struct{}

func (Brotli) Format() container.Format { return container.FormatBrotli }

// BrotliQuality is round(11*p/100) bounded to [1, 11].
func BrotliQuality(percentage int) int {
	q := int(math.Round(float64(brotli.BestCompression) * float64(percentage) / 100))
	return max(1, min(brotli.BestCompression, q))
}

func (Brotli) Encode(data []byte, percentage int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, BrotliQuality(percentage))
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli: close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (Brotli) Decode(payload []byte, originalLength uint64) ([]byte, error) {
	return readExact("brotli", brotli.NewReader(bytes.NewReader(payload)), originalLength)
}
