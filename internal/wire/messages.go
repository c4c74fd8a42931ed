// Package wire holds the gRPC messages of the Compressor service and the
// codec that carries them. Messages use the protobuf wire format so any
// protobuf client can talk to the server with the matching .proto file.
package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrWireType is returned when a known field arrives with the wrong wire type.
var ErrWireType = errors.New("wire: unexpected wire type")

// Message is implemented by every type the Codec can carry.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

// CompressRequest asks the server to compress Data.
type CompressRequest struct {
	Filename    string // 1
	ContentType string // 2
	Data        []byte // 3
	Percentage  string // 4, empty uses the server default
}

// CompressReply describes the stored artifact and carries its bytes.
type CompressReply struct {
	OriginalFilename      string  // 1
	CompressedFilename    string  // 2
	OriginalSize          int64   // 3
	CompressedSize        int64   // 4
	CompressionPercentage float64 // 5
	RequestedPercentage   int64   // 6
	Path                  string  // 7
	Format                string  // 8
	MergedSymbols         int64   // 9
	Artifact              []byte  // 10
}

// DecompressRequest asks the server to restore an artifact.
type DecompressRequest struct {
	Filename    string // 1
	ContentType string // 2
	Data        []byte // 3
}

// DecompressReply describes the restored file and carries its bytes.
type DecompressReply struct {
	OriginalFilename     string // 1
	DecompressedFilename string // 2
	Size                 int64  // 3
	Path                 string // 4
	Format               string // 5
	Data                 []byte // 6
}

func (m *CompressRequest) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.Filename)
	b = appendString(b, 2, m.ContentType)
	b = appendBytes(b, 3, m.Data)
	b = appendString(b, 4, m.Percentage)
	return b
}

func (m *CompressRequest) UnmarshalWire(b []byte) error {
	*m = CompressRequest{}
	return decode(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(&m.Filename, typ, b)
		case 2:
			return consumeString(&m.ContentType, typ, b)
		case 3:
			return consumeBytes(&m.Data, typ, b)
		case 4:
			return consumeString(&m.Percentage, typ, b)
		}
		return skip(num, typ, b)
	})
}

func (m *CompressReply) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.OriginalFilename)
	b = appendString(b, 2, m.CompressedFilename)
	b = appendInt(b, 3, m.OriginalSize)
	b = appendInt(b, 4, m.CompressedSize)
	b = appendDouble(b, 5, m.CompressionPercentage)
	b = appendInt(b, 6, m.RequestedPercentage)
	b = appendString(b, 7, m.Path)
	b = appendString(b, 8, m.Format)
	b = appendInt(b, 9, m.MergedSymbols)
	b = appendBytes(b, 10, m.Artifact)
	return b
}

func (m *CompressReply) UnmarshalWire(b []byte) error {
	*m = CompressReply{}
	return decode(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(&m.OriginalFilename, typ, b)
		case 2:
			return consumeString(&m.CompressedFilename, typ, b)
		case 3:
			return consumeInt(&m.OriginalSize, typ, b)
		case 4:
			return consumeInt(&m.CompressedSize, typ, b)
		case 5:
			return consumeDouble(&m.CompressionPercentage, typ, b)
		case 6:
			return consumeInt(&m.RequestedPercentage, typ, b)
		case 7:
			return consumeString(&m.Path, typ, b)
		case 8:
			return consumeString(&m.Format, typ, b)
		case 9:
			return consumeInt(&m.MergedSymbols, typ, b)
		case 10:
			return consumeBytes(&m.Artifact, typ, b)
		}
		return skip(num, typ, b)
	})
}

func (m *DecompressRequest) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.Filename)
	b = appendString(b, 2, m.ContentType)
	b = appendBytes(b, 3, m.Data)
	return b
}

func (m *DecompressRequest) UnmarshalWire(b []byte) error {
	*m = DecompressRequest{}
	return decode(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(&m.Filename, typ, b)
		case 2:
			return consumeString(&m.ContentType, typ, b)
		case 3:
			return consumeBytes(&m.Data, typ, b)
		}
		return skip(num, typ, b)
	})
}

func (m *DecompressReply) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.OriginalFilename)
	b = appendString(b, 2, m.DecompressedFilename)
	b = appendInt(b, 3, m.Size)
	b = appendString(b, 4, m.Path)
	b = appendString(b, 5, m.Format)
	b = appendBytes(b, 6, m.Data)
	return b
}

func (m *DecompressReply) UnmarshalWire(b []byte) error {
	*m = DecompressReply{}
	return decode(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(&m.OriginalFilename, typ, b)
		case 2:
			return consumeString(&m.DecompressedFilename, typ, b)
		case 3:
			return consumeInt(&m.Size, typ, b)
		case 4:
			return consumeString(&m.Path, typ, b)
		case 5:
			return consumeString(&m.Format, typ, b)
		case 6:
			return consumeBytes(&m.Data, typ, b)
		}
		return skip(num, typ, b)
	})
}

// Zero values are omitted, as proto3 does for scalar fields.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func decode(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		b = b[n:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

func consumeString(dst *string, typ protowire.Type, b []byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeBytes(dst *[]byte, typ protowire.Type, b []byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = append([]byte(nil), v...)
	return n, nil
}

func consumeInt(dst *int64, typ protowire.Type, b []byte) (int, error) {
	if typ != protowire.VarintType {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int64(v)
	return n, nil
}

func consumeDouble(dst *float64, typ protowire.Type, b []byte) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, ErrWireType
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(v)
	return n, nil
}
