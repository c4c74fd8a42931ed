package signature

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huffpress/internal/compress"
)

var testKey = []byte("artifact-key")

// multipartUpload builds the form the client posts to /compress.
func multipartUpload(t *testing.T, name string, content []byte) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("percentage", "40"))
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func gzipped(t *testing.T, b []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// artifact is a small huffman container: tag, length, padding, one triple.
func artifact() []byte {
	return []byte{1, 0, 0, 0, 0, 0, 0, 0, 3, 5, 0, 1, 'a', 1, 0, 0x00}
}

func TestSignVerify(t *testing.T) {
	upload, _ := multipartUpload(t, "report.pdf", []byte("%PDF-1.7 body"))
	art := artifact()

	tests := []struct {
		name    string
		payload []byte
		key     []byte
		header  string
		want    bool
	}{
		{name: "multipart upload", payload: upload, key: testKey, header: Sign(upload, testKey), want: true},
		{name: "artifact", payload: art, key: testKey, header: Sign(art, testKey), want: true},
		{name: "padded header", payload: art, key: testKey, header: " " + Sign(art, testKey) + "\n", want: true},
		{name: "upper case hex", payload: art, key: testKey, header: strings.ToUpper(Sign(art, testKey)), want: true},
		{name: "other key", payload: art, key: []byte("other"), header: Sign(art, testKey), want: false},
		{name: "flipped artifact bit", payload: append(art[:len(art)-1:len(art)-1], 0x80), key: testKey, header: Sign(art, testKey), want: false},
		{name: "empty header", payload: art, key: testKey, header: "", want: false},
		{name: "not hex", payload: art, key: testKey, header: "zz", want: false},
		{name: "truncated header", payload: upload, key: testKey, header: Sign(upload, testKey)[:32], want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.payload, tt.key, tt.header))
		})
	}
}

func TestSignIsDeterministicHex(t *testing.T) {
	art := artifact()

	sig := Sign(art, testKey)
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, Sign(art, testKey))
	assert.NotEqual(t, sig, Sign(art, []byte("artifact-key2")))
	assert.NotEqual(t, sig, Sign(art[:len(art)-1], testKey))
}

func TestSignatureCheckKeepsUploadReadable(t *testing.T) {
	upload, ctype := multipartUpload(t, "notes.txt", []byte("hello hello hello"))

	r := httptest.NewRequest(http.MethodPost, "/compress", bytes.NewReader(upload))
	r.Header.Set("Content-Type", ctype)

	require.True(t, SignatureCheck(r, testKey, Sign(upload, testKey)))

	// the next handler still parses the form
	require.NoError(t, r.ParseMultipartForm(1<<20))
	f, hdr, err := r.FormFile("file")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", hdr.Filename)
	assert.Equal(t, "hello hello hello", string(got))
	assert.Equal(t, "40", r.FormValue("percentage"))
}

func TestSignatureHandler(t *testing.T) {
	upload, ctype := multipartUpload(t, "data.bin", bytes.Repeat([]byte{0xAB}, 300))
	art := artifact()

	// echoes the uploaded file back, the way /decompress returns bytes
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.Copy(w, f)
	})

	tests := []struct {
		name     string
		secret   string
		header   string
		wantCode int
		wantSig  bool
	}{
		{name: "signed upload", secret: string(testKey), header: Sign(upload, testKey), wantCode: http.StatusCreated, wantSig: true},
		{name: "unsigned upload", secret: string(testKey), wantCode: http.StatusCreated, wantSig: true},
		{name: "signed none", secret: string(testKey), header: "None", wantCode: http.StatusCreated, wantSig: true},
		{name: "wrong key", secret: string(testKey), header: Sign(upload, []byte("nope")), wantCode: http.StatusBadRequest},
		{name: "signing disabled", secret: "", header: "deadbeef", wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/decompress", bytes.NewReader(upload))
			r.Header.Set("Content-Type", ctype)
			if tt.header != "" {
				r.Header.Set(Header, tt.header)
			}
			w := httptest.NewRecorder()

			SignatureHandler(tt.secret)(echo).ServeHTTP(w, r)

			res := w.Result()
			defer res.Body.Close()
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, res.StatusCode)
			if tt.wantCode == http.StatusBadRequest {
				assert.Contains(t, string(body), "wrong key")
				return
			}
			assert.Equal(t, bytes.Repeat([]byte{0xAB}, 300), body)
			if tt.wantSig {
				assert.True(t, Verify(body, testKey, res.Header.Get(Header)))
			} else {
				assert.Empty(t, res.Header.Get(Header))
			}
		})
	}

	t.Run("artifact response signed", func(t *testing.T) {
		h := SignatureHandler(string(testKey))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(art)
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/compressed_a.huffman", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, art, w.Body.Bytes())
		assert.Equal(t, Sign(art, testKey), w.Header().Get(Header))
	})
}

// The client signs the gzip bytes it sends, so the check must run before
// the body is inflated.
func TestSignatureHandlerGzipUpload(t *testing.T) {
	content := []byte(strings.Repeat("signed and gzipped multipart ", 40))
	upload, ctype := multipartUpload(t, "doc.txt", content)
	gz := gzipped(t, upload)

	var seen []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		seen, err = io.ReadAll(f)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})
	chain := SignatureHandler(string(testKey))(compress.GzipHandleReader(next))

	tests := []struct {
		name     string
		sig      string
		wantCode int
	}{
		{name: "signature over gzip bytes", sig: Sign(gz, testKey), wantCode: http.StatusOK},
		{name: "signature over inflated form", sig: Sign(upload, testKey), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodPost, "/compress", bytes.NewReader(gz))
			r.Header.Set("Content-Type", ctype)
			r.Header.Set("Content-Encoding", "gzip")
			r.Header.Set(Header, tt.sig)
			w := httptest.NewRecorder()

			chain.ServeHTTP(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, content, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestResponseHashWriterDefersStatus(t *testing.T) {
	art := artifact()
	rec := httptest.NewRecorder()
	rw := NewResponseHashWriter(rec, testKey)

	rw.Header().Set("Content-Type", "application/octet-stream")
	rw.WriteHeader(http.StatusAccepted)
	_, err := rw.Write(art[:4])
	require.NoError(t, err)
	_, err = rw.Write(art[4:])
	require.NoError(t, err)

	// nothing reaches the client before Finalize
	assert.Empty(t, rec.Body.Bytes())
	assert.Empty(t, rec.Header().Get(Header))

	n, err := rw.Finalize()
	require.NoError(t, err)
	assert.Equal(t, len(art), n)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, art, rec.Body.Bytes())
	assert.True(t, Verify(art, testKey, rec.Header().Get(Header)))
}
