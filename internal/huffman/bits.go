package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"huffpress/internal/codecerr"
)

// Pack writes the code of every byte of data MSB-first and zero-pads the last
// byte. It returns the packed payload and the number of pad bits (0-7).
func Pack(data []byte, ct *CodeTable) ([]byte, uint8, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 1)

	w := bitio.NewWriter(&buf)
	for i, b := range data {
		code, ok := ct.Lookup(b)
		if !ok {
			return nil, 0, fmt.Errorf("pack: symbol %#x at offset %d has no code", b, i)
		}
		if err := w.WriteBits(code.Bits, code.Len); err != nil {
			return nil, 0, fmt.Errorf("pack: %w", err)
		}
	}

	padding, err := w.Align()
	if err != nil {
		return nil, 0, fmt.Errorf("pack: align: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, 0, fmt.Errorf("pack: close: %w", err)
	}

	return buf.Bytes(), padding, nil
}

// Unpack decodes exactly n symbols from payload by walking trie one bit at a
// time. Bits left after the n-th symbol are padding and are ignored.
func Unpack(payload []byte, trie *Trie, n uint64) ([]byte, error) {
	// Every symbol takes at least one bit.
	if n > uint64(len(payload))*8 {
		return nil, fmt.Errorf("unpack: %d symbols cannot fit in %d bytes: %w",
			n, len(payload), codecerr.ErrTruncatedStream)
	}

	out := make([]byte, 0, n)
	r := bitio.NewReader(bytes.NewReader(payload))

	for uint64(len(out)) < n {
		cur := int32(0)
		for !trie.nodes[cur].leaf {
			bit, err := r.ReadBool()
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return nil, fmt.Errorf("unpack: stream ended after %d of %d symbols: %w",
						len(out), n, codecerr.ErrTruncatedStream)
				}
				return nil, fmt.Errorf("unpack: %w", err)
			}

			next := trie.nodes[cur].child[0]
			if bit {
				next = trie.nodes[cur].child[1]
			}
			if next == noChild {
				return nil, fmt.Errorf("unpack: bit sequence at symbol %d has no code: %w",
					len(out), codecerr.ErrDecodeMismatch)
			}
			cur = next
		}
		out = append(out, trie.nodes[cur].symbol)
	}

	return out, nil
}
