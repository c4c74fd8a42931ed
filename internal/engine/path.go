package engine

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"huffpress/internal/codecerr"
	"huffpress/internal/huffman"
)

// Path is the compression path chosen for an input.
type Path int

const (
	PathLossyHuffman Path = iota
	PathLossless
)

func (p Path) String() string {
	switch p {
	case PathLossyHuffman:
		return "huffman"
	case PathLossless:
		return "lossless"
	default:
		return fmt.Sprintf("path(%d)", int(p))
	}
}

const (
	pdfMagic = "%PDF-"
	pdfMIME  = "application/pdf"
	pdfExt   = ".pdf"
)

// DetectPath selects the lossless path for PDF content: data starting with
// the PDF magic, an application/pdf hint, or a hint naming a .pdf file.
func DetectPath(data []byte, hint string) Path {
	if bytes.HasPrefix(data, []byte(pdfMagic)) {
		return PathLossless
	}

	hint = strings.ToLower(strings.TrimSpace(hint))
	if mime, _, _ := strings.Cut(hint, ";"); strings.TrimSpace(mime) == pdfMIME {
		return PathLossless
	}
	if strings.HasSuffix(hint, pdfExt) {
		return PathLossless
	}
	return PathLossyHuffman
}

// ParsePercentage parses a user supplied compression percentage. An empty
// value selects the default; numbers outside the supported range are
// clamped; anything that is not a number is rejected.
func ParsePercentage(raw string) (int, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return huffman.DefaultPercentage, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !isRangeError(err) {
		return 0, codecerr.New(codecerr.KindUnsupportedPercentage, "parse percentage",
			fmt.Errorf("%q: %w", raw, codecerr.ErrUnsupportedPercentage))
	}
	if math.IsNaN(v) {
		return 0, codecerr.New(codecerr.KindUnsupportedPercentage, "parse percentage",
			fmt.Errorf("%q is not a number: %w", raw, codecerr.ErrUnsupportedPercentage))
	}

	switch {
	case v < huffman.MinPercentage:
		return huffman.MinPercentage, nil
	case v > huffman.MaxPercentage:
		return huffman.MaxPercentage, nil
	}
	return int(math.Round(v)), nil
}

// isRangeError reports an overflowing but otherwise numeric value; ParseFloat
// returns ±Inf for it, which clamps like any other out-of-range number.
func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
