package lossless

import (
	"bytes"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"huffpress/internal/container"
)

// LZ4 is an LZ4 frame.
type LZ4 struct{}

func (LZ4) Format() container.Format { return container.FormatLZ4 }

// LZ4Level maps 9*p/100 onto Fast, Level1 .. Level9.
func LZ4Level(percentage int) lz4.CompressionLevel {
	levels := [...]lz4.CompressionLevel{
		lz4.Fast,
		lz4.Level1, lz4.Level2, lz4.Level3,
		lz4.Level4, lz4.Level5, lz4.Level6,
		lz4.Level7, lz4.Level8, lz4.Level9,
	}
	return levels[level(percentage, 0, len(levels)-1)]
}

func (LZ4) Encode(data []byte, percentage int) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(LZ4Level(percentage))); err != nil {
		return nil, fmt.Errorf("lz4: apply options: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4: close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (LZ4) Decode(payload []byte, originalLength uint64) ([]byte, error) {
	return readExact("lz4", lz4.NewReader(bytes.NewReader(payload)), originalLength)
}
