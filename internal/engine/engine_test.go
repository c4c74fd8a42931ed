package engine

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"huffpress/internal/codecerr"
	"huffpress/internal/container"
	"huffpress/internal/lossless"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func sampleText(seed int64, n int) []byte {
	rnd := rand.New(rand.NewSource(seed))
	words := []string{"alpha", "beta", "gamma", "delta", "Zeta", "q", "x!", "#7", "\t", "\n", "~"}
	var buf bytes.Buffer
	for buf.Len() < n {
		buf.WriteString(words[rnd.Intn(len(words))])
		buf.WriteByte(' ')
	}
	return buf.Bytes()[:n]
}

func samplePDF(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	for i := 0; buf.Len() < n; i++ {
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", i)
	}
	buf.WriteString("trailer\n<< /Root 1 0 R >>\n%%EOF\n")
	return buf.Bytes()
}

func TestCompressScenario(t *testing.T) {
	e := newEngine(t)

	res, err := e.Compress([]byte("aaaabbbccd"), 50, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, PathLossyHuffman, res.Path)
	assert.Equal(t, container.FormatHuffman, res.Format)
	assert.Equal(t, 10, res.OriginalSize)
	assert.Equal(t, len(res.Artifact), res.CompressedSize)
	assert.Equal(t, []byte("d"), res.Filter.Dropped)
	assert.Equal(t, byte('?'), res.Filter.Escape)

	dec, err := e.Decompress(res.Artifact, "")
	require.NoError(t, err)
	assert.Equal(t, "aaaabbbcc?", string(dec.Data))
	assert.Equal(t, PathLossyHuffman, dec.Path)
}

func TestLossyReconstruction(t *testing.T) {
	e := newEngine(t)
	data := sampleText(1, 20000)

	for _, p := range []int{10, 30, 50, 70, 90} {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			res, err := e.Compress(data, p, "")
			require.NoError(t, err)

			dec, err := e.Decompress(res.Artifact, "")
			require.NoError(t, err)
			require.Len(t, dec.Data, len(data))

			dropped := map[byte]bool{}
			for _, s := range res.Filter.Dropped {
				dropped[s] = true
			}
			for i := range data {
				if dropped[data[i]] {
					require.Equal(t, res.Filter.Escape, dec.Data[i], "offset %d", i)
				} else {
					require.Equal(t, data[i], dec.Data[i], "offset %d", i)
				}
			}
		})
	}
}

func TestLosslessRoundTrip(t *testing.T) {
	data := samplePDF(50000)

	for _, name := range append(lossless.Names(), AutoLossless) {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, WithLossless(name))

			res, err := e.Compress(data, 60, "")
			require.NoError(t, err)
			assert.Equal(t, PathLossless, res.Path)
			assert.True(t, res.Format.Lossless())
			assert.False(t, res.Filter.Applied())
			assert.Positive(t, res.AchievedPercentage)

			dec, err := e.Decompress(res.Artifact, "")
			require.NoError(t, err)
			assert.Equal(t, data, dec.Data)
			assert.Equal(t, res.Format, dec.Format)
		})
	}
}

func TestAutoLosslessPicksSmallest(t *testing.T) {
	data := samplePDF(30000)

	auto, err := newEngine(t, WithLossless(AutoLossless)).Compress(data, 50, "")
	require.NoError(t, err)

	for _, name := range lossless.Names() {
		res, err := newEngine(t, WithLossless(name)).Compress(data, 50, "")
		require.NoError(t, err)
		assert.LessOrEqual(t, auto.CompressedSize, res.CompressedSize, name)
	}
}

func TestPathSelectionByHint(t *testing.T) {
	e := newEngine(t)
	data := []byte("plain bytes that are not a pdf at all")

	res, err := e.Compress(data, 50, "report.PDF")
	require.NoError(t, err)
	assert.Equal(t, PathLossless, res.Path)

	res, err = e.Compress(data, 50, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, PathLossless, res.Path)

	res, err = e.Compress(data, 50, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, PathLossyHuffman, res.Path)
}

func TestDecompressIgnoresHint(t *testing.T) {
	e := newEngine(t)

	res, err := e.Compress([]byte("hello, world"), 10, "")
	require.NoError(t, err)

	dec, err := e.Decompress(res.Artifact, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, PathLossyHuffman, dec.Path)
}

func TestDeterministic(t *testing.T) {
	e := newEngine(t)
	data := sampleText(9, 5000)

	first, err := e.Compress(data, 40, "")
	require.NoError(t, err)
	second, err := e.Compress(data, 40, "")
	require.NoError(t, err)

	assert.Equal(t, first.Artifact, second.Artifact)
}

func TestMonotonicAlphabet(t *testing.T) {
	e := newEngine(t)
	data := sampleText(4, 8000)

	prev := 257
	for p := 10; p <= 90; p += 5 {
		res, err := e.Compress(data, p, "")
		require.NoError(t, err)

		c, err := container.Decode(res.Artifact)
		require.NoError(t, err)
		assert.LessOrEqual(t, c.Table.Len(), prev, "percentage %d", p)
		prev = c.Table.Len()
	}
}

func TestSingleSymbol(t *testing.T) {
	e := newEngine(t)
	data := bytes.Repeat([]byte{0x41}, 1000)

	res, err := e.Compress(data, 50, "")
	require.NoError(t, err)

	c, err := container.Decode(res.Artifact)
	require.NoError(t, err)
	assert.Len(t, c.Payload, 125)
	assert.Equal(t, uint8(0), c.Padding)
	assert.Equal(t, 1, c.Table.Len())
	assert.Equal(t, 10+2+3+125, res.CompressedSize)

	dec, err := e.Decompress(res.Artifact, "")
	require.NoError(t, err)
	assert.Equal(t, data, dec.Data)
}

func TestCompressEmptyInput(t *testing.T) {
	e := newEngine(t)

	for _, hint := range []string{"", "a.pdf"} {
		res, err := e.Compress(nil, 50, hint)
		require.Error(t, err)
		assert.Nil(t, res)

		var ce *codecerr.Error
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, codecerr.KindEmptyInput, ce.Kind)
		assert.Equal(t, "compress", ce.Op)
		assert.ErrorIs(t, err, codecerr.ErrEmptyInput)
	}
}

func TestDecompressTruncated(t *testing.T) {
	e := newEngine(t)

	res, err := e.Compress(sampleText(2, 4000), 50, "")
	require.NoError(t, err)

	dec, err := e.Decompress(res.Artifact[:len(res.Artifact)-1], "")
	require.Error(t, err)
	assert.Nil(t, dec)
	assert.Equal(t, codecerr.KindTruncatedStream, codecerr.KindOf(err))
}

func TestDecompressTruncatedLossless(t *testing.T) {
	for _, name := range lossless.Names() {
		for _, n := range []int{100, 20000} {
			t.Run(fmt.Sprintf("%s/%d", name, n), func(t *testing.T) {
				e := newEngine(t, WithLossless(name))

				res, err := e.Compress(samplePDF(n), 50, "")
				require.NoError(t, err)

				dec, err := e.Decompress(res.Artifact[:len(res.Artifact)-1], "")
				require.Error(t, err)
				assert.Nil(t, dec)
				assert.Equal(t, codecerr.KindTruncatedStream, codecerr.KindOf(err), err)
			})
		}
	}
}

func TestDecompressMalformed(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name     string
		artifact []byte
		kind     codecerr.Kind
	}{
		{name: "empty", artifact: nil, kind: codecerr.KindMalformedContainer},
		{name: "garbage", artifact: []byte("definitely not an artifact"), kind: codecerr.KindMalformedContainer},
		{
			name:     "count exceeds buffer",
			artifact: []byte{1, 0, 0, 0, 0, 0, 0, 0, 5, 0, 0, 50, 'a', 1, 0},
			kind:     codecerr.KindMalformedContainer,
		},
		{
			name:     "conflicting codes",
			artifact: []byte{1, 0, 0, 0, 0, 0, 0, 0, 5, 0, 0, 2, 'a', 1, 0x00, 'b', 1, 0x00, 0xFF},
			kind:     codecerr.KindDecodeMismatch,
		},
		{
			name:     "dangling code",
			artifact: []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 1, 'a', 1, 0x00, 0xFF},
			kind:     codecerr.KindDecodeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Decompress(tt.artifact, "")
			require.Error(t, err)

			var ce *codecerr.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, "decompress", ce.Op)
		})
	}
}

func TestAchievedPercentage(t *testing.T) {
	assert.Equal(t, 50.0, achieved(200, 100))
	assert.Equal(t, 66.67, achieved(3, 1))
	assert.Equal(t, -40.0, achieved(10, 14))
	assert.Equal(t, 0.0, achieved(7, 7))
}

func TestStateTransitionsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := newEngine(t, WithLogger(zap.New(core).Sugar()))

	_, err := e.Compress([]byte("abcabcabd"), 50, "")
	require.NoError(t, err)

	var got []string
	for _, entry := range logs.FilterMessage("pipeline transition").All() {
		got = append(got, fmt.Sprint(entry.ContextMap()["to"]))
	}
	assert.Equal(t, []string{"analyzing_content", "lossy_huffman", "packaged", "done"}, got)

	logs.TakeAll()
	_, err = e.Decompress([]byte{9}, "")
	require.Error(t, err)

	got = got[:0]
	for _, entry := range logs.FilterMessage("pipeline transition").All() {
		got = append(got, fmt.Sprint(entry.ContextMap()["to"]))
	}
	assert.Equal(t, []string{"analyzing_content", "failed"}, got)
	assert.Equal(t, 1, logs.FilterMessage("pipeline failed").Len())
}

func TestNewOptions(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "deflate", e.Lossless())

	e = newEngine(t, WithLossless("Brotli"), WithLogger(nil))
	assert.Equal(t, "brotli", e.Lossless())

	e = newEngine(t, WithLossless(AutoLossless))
	assert.Equal(t, AutoLossless, e.Lossless())

	_, err := New(WithLossless("rar"))
	assert.ErrorIs(t, err, lossless.ErrUnknownTransform)
}

func TestConcurrentUse(t *testing.T) {
	e := newEngine(t, WithLossless("zstd"))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			data := sampleText(int64(i), 3000)
			hint := ""
			if i%2 == 0 {
				data = samplePDF(3000)
			}
			res, err := e.Compress(data, 10+i*5, hint)
			if err != nil {
				errs <- err
				return
			}
			dec, err := e.Decompress(res.Artifact, hint)
			if err != nil {
				errs <- err
				return
			}
			if res.Path == PathLossless && !bytes.Equal(dec.Data, data) {
				errs <- fmt.Errorf("worker %d: lossless output differs", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestDetectPath(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		hint string
		want Path
	}{
		{name: "pdf magic", data: []byte("%PDF-1.7 ..."), want: PathLossless},
		{name: "pdf mime", data: []byte("x"), hint: "application/pdf", want: PathLossless},
		{name: "pdf mime with params", data: []byte("x"), hint: "Application/PDF; charset=binary", want: PathLossless},
		{name: "pdf file name", data: []byte("x"), hint: "Scan 01.Pdf", want: PathLossless},
		{name: "text", data: []byte("%PDX-"), hint: "text/plain", want: PathLossyHuffman},
		{name: "no hint", data: []byte("hello"), want: PathLossyHuffman},
		{name: "pdf in the middle", data: []byte("x%PDF-"), hint: "pdf.txt", want: PathLossyHuffman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPath(tt.data, tt.hint))
		})
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 50},
		{raw: "  ", want: 50},
		{raw: "50", want: 50},
		{raw: "75%", want: 75},
		{raw: "33.6", want: 34},
		{raw: "5", want: 10},
		{raw: "-20", want: 10},
		{raw: "150", want: 90},
		{raw: "1e400", want: 90},
		{raw: "inf", want: 90},
		{raw: "abc", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "50abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePercentage(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, codecerr.ErrUnsupportedPercentage)
				assert.Equal(t, codecerr.KindUnsupportedPercentage, codecerr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
