package lossless

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"

	"huffpress/internal/codecerr"
	"huffpress/internal/container"
)

// Snappy is a snappy block. It has no effort levels.
type Snappy struct{}

func (Snappy) Format() container.Format { return container.FormatSnappy }

func (Snappy) Encode(data []byte, _ int) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (Snappy) Decode(payload []byte, originalLength uint64) ([]byte, error) {
	n, err := snappy.DecodedLen(payload)
	if err != nil {
		return nil, snappyError(payload, err)
	}
	if uint64(n) != originalLength {
		return nil, fmt.Errorf("snappy: block declares %d bytes, header %d: %w", n, originalLength, codecerr.ErrMalformedContainer)
	}

	out, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, snappyError(payload, err)
	}
	return checkLength("snappy", out, originalLength)
}

// snappyError tells a block cut short apart from a corrupt one. snappy
// reports both as ErrCorrupt.
func snappyError(block []byte, err error) error {
	if blockTruncated(block) {
		return fmt.Errorf("snappy: %w: %w", codecerr.ErrTruncatedStream, err)
	}
	return decodeError("snappy", err)
}

// blockTruncated walks the element tags of a snappy block and reports
// whether the input ends inside an element or before the declared length
// has been produced. Copy offsets are not checked.
func blockTruncated(block []byte) bool {
	declared, hdr := binary.Uvarint(block)
	if hdr == 0 {
		return true
	}
	if hdr < 0 {
		return false
	}

	var produced uint64
	s := block[hdr:]
	for len(s) > 0 {
		tag := s[0]
		var size, length int
		switch tag & 0x03 {
		case 0x00:
			x := int(tag >> 2)
			if x < 60 {
				size, length = 1, x+1
				break
			}
			extra := x - 59
			if len(s) < 1+extra {
				return true
			}
			v := 0
			for i := 0; i < extra; i++ {
				v |= int(s[1+i]) << (8 * i)
			}
			size, length = 1+extra+v+1, v+1
		case 0x01:
			size, length = 2, 4+int(tag>>2)&0x07
		case 0x02:
			size, length = 3, 1+int(tag>>2)
		default:
			size, length = 5, 1+int(tag>>2)
		}
		if size < 0 || len(s) < size {
			return true
		}
		s = s[size:]
		produced += uint64(length)
	}
	return produced < declared
}
