// Package lossless holds the byte-exact transforms used for PDF-like content.
// Every transform is stateless: encoders and decoders are created per call,
// so a Transform value is safe for concurrent use.
package lossless

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"huffpress/internal/codecerr"
	"huffpress/internal/container"
)

// Transform compresses a buffer into a container payload and back.
type Transform interface {
	Format() container.Format
	// Encode compresses data; percentage (10-90) selects the effort level.
	Encode(data []byte, percentage int) ([]byte, error)
	// Decode restores exactly originalLength bytes from payload.
	Decode(payload []byte, originalLength uint64) ([]byte, error)
}

// DefaultName is the transform used when none is configured.
const DefaultName = "deflate"

var registry = map[container.Format]Transform{
	container.FormatDeflate: Deflate{},
	container.FormatZstd:    Zstd{},
	container.FormatBrotli:  Brotli{},
	container.FormatLZ4:     LZ4{},
	container.FormatSnappy:  Snappy{},
}

// ErrUnknownTransform is returned by ByName for unregistered names.
var ErrUnknownTransform = errors.New("unknown lossless transform")

// ForFormat returns the transform decoding payloads tagged f.
func ForFormat(f container.Format) (Transform, bool) {
	t, ok := registry[f]
	return t, ok
}

// ByName looks a transform up by its format name, case-insensitively.
func ByName(name string) (Transform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}
	for f, t := range registry {
		if f.String() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownTransform, name, strings.Join(Names(), ", "))
}

// Names lists the registered transform names in tag order.
func Names() []string {
	formats := make([]int, 0, len(registry))
	for f := range registry {
		formats = append(formats, int(f))
	}
	sort.Ints(formats)

	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, container.Format(f).String())
	}
	return names
}

// level maps a percentage onto [lo, hi] linearly, truncating.
func level(percentage, lo, hi int) int {
	l := lo + (hi-lo)*percentage/100
	return max(lo, min(hi, l))
}

// readExact drains r, reading at most one byte past the expected length so
// that oversized streams are noticed without buffering them.
func readExact(op string, r io.Reader, originalLength uint64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(originalLength)+1))
	if err != nil {
		return nil, decodeError(op, err)
	}
	return checkLength(op, out, originalLength)
}

func checkLength(op string, out []byte, originalLength uint64) ([]byte, error) {
	switch {
	case uint64(len(out)) < originalLength:
		return nil, fmt.Errorf("%s: decoded %d of %d bytes: %w", op, len(out), originalLength, codecerr.ErrTruncatedStream)
	case uint64(len(out)) > originalLength:
		return nil, fmt.Errorf("%s: decoded more than %d bytes: %w", op, originalLength, codecerr.ErrMalformedContainer)
	}
	return out, nil
}

func decodeError(op string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w: %w", op, codecerr.ErrTruncatedStream, err)
	}
	return fmt.Errorf("%s: %w: %w", op, codecerr.ErrMalformedContainer, err)
}
