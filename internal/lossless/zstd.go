package lossless

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"huffpress/internal/container"
)

// Zstd is a single Zstandard frame.
type Zstd struct{}

func (Zstd) Format() container.Format { return container.FormatZstd }

// ZstdLevel buckets a percentage into the four encoder speeds.
func ZstdLevel(percentage int) zstd.EncoderLevel {
	switch {
	case percentage < 30:
		return zstd.SpeedFastest
	case percentage < 60:
		return zstd.SpeedDefault
	case percentage < 80:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func (Zstd) Encode(data []byte, percentage int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(ZstdLevel(percentage)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd: create encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (Zstd) Decode(payload []byte, originalLength uint64) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: create decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, decodeError("zstd", err)
	}
	return checkLength("zstd", out, originalLength)
}
