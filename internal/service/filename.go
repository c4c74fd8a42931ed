package service

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"huffpress/internal/container"
)

const (
	compressedPrefix   = "compressed_"
	decompressedPrefix = "decompressed_"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII file name that is safe to use
// as a storage key: accents are folded, path separators and whitespace
// become underscores, other characters are dropped and leading or trailing
// dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ArtifactName is the storage name of the artifact compressed from name.
func ArtifactName(name string, format container.Format) string {
	return fmt.Sprintf("%s%s.%s", compressedPrefix, name, format)
}

// RestoredName recovers the original name from an artifact name produced by
// ArtifactName. Other names get a decompressed_ prefix instead.
func RestoredName(artifact string, format container.Format) string {
	base, hadSuffix := strings.CutSuffix(artifact, "."+format.String())
	if !hadSuffix {
		return decompressedPrefix + artifact
	}
	if orig, ok := strings.CutPrefix(base, compressedPrefix); ok && orig != "" {
		return orig
	}
	return decompressedPrefix + base
}

// EncodeText returns the text-safe (base64) form of data.
func EncodeText(data []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out
}

// DecodeText reverses EncodeText. Surrounding whitespace is ignored.
func DecodeText(text []byte) ([]byte, error) {
	text = []byte(strings.TrimSpace(string(text)))
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return out[:n], nil
}
