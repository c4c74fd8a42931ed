// Package container serializes compressed artifacts into a self-describing
// binary format:
//
//	[1 byte  format tag]
//	[8 bytes original length, big-endian]
//	[1 byte  pad bit count]
//	huffman only:
//	  [2 bytes distinct symbol count, big-endian]
//	  count x [1 byte symbol][1 byte code bit length][ceil(len/8) bytes code bits]
//	[remaining bytes payload]
//
// Code bits are stored MSB-first and left-aligned in their bytes. Table
// entries are written in ascending symbol order.
package container

import (
	"encoding/binary"
	"fmt"

	"huffpress/internal/codecerr"
	"huffpress/internal/huffman"
)

// Format is the container tag selecting the payload encoding.
type Format uint8

const (
	FormatHuffman Format = iota + 1
	FormatDeflate
	FormatZstd
	FormatBrotli
	FormatLZ4
	FormatSnappy
)

const (
	headerSize      = 1 + 8 + 1
	tableHeaderSize = 2
	maxSymbols      = 256
)

func (f Format) String() string {
	switch f {
	case FormatHuffman:
		return "huffman"
	case FormatDeflate:
		return "deflate"
	case FormatZstd:
		return "zstd"
	case FormatBrotli:
		return "brotli"
	case FormatLZ4:
		return "lz4"
	case FormatSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Valid reports whether f is a known tag.
func (f Format) Valid() bool {
	return f >= FormatHuffman && f <= FormatSnappy
}

// Lossless reports whether the payload reproduces the input exactly.
func (f Format) Lossless() bool {
	return f.Valid() && f != FormatHuffman
}

// Container is the parsed form of an artifact. Table is set for the huffman
// format only.
type Container struct {
	Format         Format
	OriginalLength uint64
	Padding        uint8
	Table          *huffman.CodeTable
	Payload        []byte
}

// Encode serializes c.
func Encode(c *Container) ([]byte, error) {
	if !c.Format.Valid() {
		return nil, fmt.Errorf("encode container: unknown %v", c.Format)
	}
	if c.Padding > 7 {
		return nil, fmt.Errorf("encode container: padding %d out of range", c.Padding)
	}

	var entries []huffman.Entry
	size := headerSize + len(c.Payload)
	if c.Format == FormatHuffman {
		if c.Table == nil || c.Table.Len() == 0 {
			return nil, fmt.Errorf("encode container: huffman format without code table")
		}
		entries = c.Table.Entries()
		size += tableHeaderSize
		for _, e := range entries {
			size += 2 + codeBytes(e.Code.Len)
		}
	} else if c.Padding != 0 {
		return nil, fmt.Errorf("encode container: %v payload cannot carry padding", c.Format)
	}

	out := make([]byte, 0, size)
	out = append(out, byte(c.Format))
	out = binary.BigEndian.AppendUint64(out, c.OriginalLength)
	out = append(out, c.Padding)

	if c.Format == FormatHuffman {
		out = binary.BigEndian.AppendUint16(out, uint16(len(entries)))
		for _, e := range entries {
			out = append(out, e.Symbol, e.Code.Len)
			out = appendCode(out, e.Code)
		}
	}

	return append(out, c.Payload...), nil
}

// Decode parses an artifact. Inconsistent header fields are reported as
// codecerr.ErrMalformedContainer, unusable code tables as
// codecerr.ErrDecodeMismatch.
func Decode(b []byte) (*Container, error) {
	if len(b) < headerSize {
		return nil, malformed("artifact of %d bytes is shorter than the %d byte header", len(b), headerSize)
	}

	c := &Container{
		Format:         Format(b[0]),
		OriginalLength: binary.BigEndian.Uint64(b[1:9]),
		Padding:        b[9],
	}
	rest := b[headerSize:]

	if !c.Format.Valid() {
		return nil, malformed("unknown format tag %d", b[0])
	}
	if c.Padding > 7 {
		return nil, malformed("pad bit count %d out of range", c.Padding)
	}
	if c.OriginalLength == 0 {
		return nil, malformed("original length is zero")
	}

	if c.Format != FormatHuffman {
		if c.Padding != 0 {
			return nil, malformed("%v payload declares %d pad bits", c.Format, c.Padding)
		}
		c.Payload = rest
		return c, nil
	}

	table, n, err := decodeTable(rest)
	if err != nil {
		return nil, err
	}
	c.Table = table
	c.Payload = rest[n:]
	return c, nil
}

func decodeTable(b []byte) (*huffman.CodeTable, int, error) {
	if len(b) < tableHeaderSize {
		return nil, 0, malformed("missing symbol count")
	}
	count := int(binary.BigEndian.Uint16(b))
	if count == 0 || count > maxSymbols {
		return nil, 0, malformed("symbol count %d out of range", count)
	}
	// Each triple takes at least three bytes.
	if count*3 > len(b)-tableHeaderSize {
		return nil, 0, malformed("symbol count %d exceeds the %d remaining bytes", count, len(b)-tableHeaderSize)
	}

	entries := make([]huffman.Entry, 0, count)
	pos := tableHeaderSize
	for i := 0; i < count; i++ {
		if pos+2 > len(b) {
			return nil, 0, malformed("table entry %d is truncated", i)
		}
		sym, length := b[pos], b[pos+1]
		pos += 2
		if length == 0 || length > huffman.MaxCodeLen {
			return nil, 0, malformed("table entry %d has code length %d", i, length)
		}
		nb := codeBytes(length)
		if pos+nb > len(b) {
			return nil, 0, malformed("table entry %d code bits are truncated", i)
		}
		entries = append(entries, huffman.Entry{Symbol: sym, Code: readCode(b[pos:pos+nb], length)})
		pos += nb
	}

	table, err := huffman.TableFromCodes(entries)
	if err != nil {
		return nil, 0, fmt.Errorf("decode container: %w", err)
	}
	return table, pos, nil
}

func codeBytes(length uint8) int {
	return (int(length) + 7) / 8
}

// appendCode writes the code left-aligned, MSB-first.
func appendCode(out []byte, c huffman.Code) []byte {
	nb := codeBytes(c.Len)
	v := c.Bits << uint(nb*8-int(c.Len))
	for i := nb - 1; i >= 0; i-- {
		out = append(out, byte(v>>(uint(i)*8)))
	}
	return out
}

func readCode(b []byte, length uint8) huffman.Code {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	shift := uint(len(b)*8 - int(length))
	return huffman.Code{Bits: v >> shift, Len: length}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("decode container: "+format+": %w", append(args, codecerr.ErrMalformedContainer)...)
}
