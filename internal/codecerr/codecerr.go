// Package codecerr defines the failure kinds of the compression engine.
// Components wrap one of the sentinel errors; the pipeline classifies the
// chain into a single *Error that callers can inspect with errors.Is/As.
package codecerr

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind int

const (
	// KindUnknown is reported for errors that carry none of the sentinels below.
	KindUnknown Kind = iota

	// KindEmptyInput indicates a zero-length input to compress.
	KindEmptyInput

	// KindUnsupportedPercentage indicates a percentage that could not be
	// interpreted at all (non-numeric, NaN). Out of range numbers are clamped
	// and never produce this kind.
	KindUnsupportedPercentage

	// KindMalformedContainer indicates inconsistent container header fields,
	// e.g. a declared symbol count that exceeds the buffer.
	KindMalformedContainer

	// KindTruncatedStream indicates the payload ran out before the expected
	// number of symbols (or bytes) was decoded.
	KindTruncatedStream

	// KindDecodeMismatch indicates a reconstructed code table that cannot
	// drive decoding: duplicate symbols, prefix conflicts, dangling codes.
	KindDecodeMismatch
)

var (
	ErrEmptyInput            = errors.New("empty input")
	ErrUnsupportedPercentage = errors.New("unsupported percentage")
	ErrMalformedContainer    = errors.New("malformed container")
	ErrTruncatedStream       = errors.New("truncated stream")
	ErrDecodeMismatch        = errors.New("decode mismatch")
)

var sentinels = map[Kind]error{
	KindEmptyInput:            ErrEmptyInput,
	KindUnsupportedPercentage: ErrUnsupportedPercentage,
	KindMalformedContainer:    ErrMalformedContainer,
	KindTruncatedStream:       ErrTruncatedStream,
	KindDecodeMismatch:        ErrDecodeMismatch,
}

// String returns the kind name used in logs and API error bodies.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindUnsupportedPercentage:
		return "unsupported_percentage"
	case KindMalformedContainer:
		return "malformed_container"
	case KindTruncatedStream:
		return "truncated_stream"
	case KindDecodeMismatch:
		return "decode_mismatch"
	default:
		return "unknown"
	}
}

// IsInput reports whether the kind is caused by the caller's request rather
// than by the content of an artifact.
func (k Kind) IsInput() bool {
	return k == KindEmptyInput || k == KindUnsupportedPercentage
}

// Error is the single typed failure surfaced by the pipeline.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with a kind and the operation that failed.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%v] %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err,
// ErrTruncatedStream) holds for a classified error even when the wrapped
// chain was produced by a third-party decoder.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf classifies err by the first sentinel found in its chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}

	for _, k := range []Kind{
		KindEmptyInput,
		KindUnsupportedPercentage,
		KindMalformedContainer,
		KindTruncatedStream,
		KindDecodeMismatch,
	} {
		if errors.Is(err, sentinels[k]) {
			return k
		}
	}

	return KindUnknown
}
