// Package signature signs HTTP bodies with HMAC-SHA256. The server checks
// signed uploads and signs every response; the client does the reverse.
package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"strings"
)

// Header carries the hex encoded HMAC of the body.
const Header = "HashSHA256"

type ResponseHashWriter struct {
	inherit http.ResponseWriter
	mac     hash.Hash
	buffer  bytes.Buffer
	rCode   int
}

func NewResponseHashWriter(w http.ResponseWriter, key []byte) *ResponseHashWriter {
	return &ResponseHashWriter{
		inherit: w,
		mac:     hmac.New(sha256.New, key),
		rCode:   http.StatusOK,
	}
}

func (rw *ResponseHashWriter) Header() http.Header  { return rw.inherit.Header() }
func (rw *ResponseHashWriter) WriteHeader(code int) { rw.rCode = code }
func (rw *ResponseHashWriter) Write(b []byte) (int, error) {
	return rw.buffer.Write(b)
}

// Sign returns the hex encoded HMAC-SHA256 of payload.
func Sign(payload, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is the signature of payload.
func Verify(payload, key []byte, header string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(header))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// SignatureCheck verifies the request body against header and leaves the
// body readable for the next handler.
func SignatureCheck(r *http.Request, secret []byte, header string) bool {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return false
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(payload))

	return Verify(payload, secret, header)
}

// Finalize signs the buffered body and writes it to the wrapped writer.
func (rw *ResponseHashWriter) Finalize() (int, error) {
	if _, err := rw.mac.Write(rw.buffer.Bytes()); err != nil {
		return 0, fmt.Errorf("hash response body: %w", err)
	}
	rw.Header().Set(Header, hex.EncodeToString(rw.mac.Sum(nil)))
	rw.inherit.WriteHeader(rw.rCode)
	return rw.inherit.Write(rw.buffer.Bytes())
}

// SignatureHandler checks signed requests and signs responses. With an empty
// secret it does nothing. Unsigned requests, or ones signed "none", pass.
func SignatureHandler(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			reqHeader := strings.TrimSpace(r.Header.Get(Header))
			if reqHeader == "" {
				reqHeader = strings.TrimSpace(r.Header.Get("Hash"))
			}

			if reqHeader != "" && !strings.EqualFold(reqHeader, "none") {
				if !SignatureCheck(r, key, reqHeader) {
					http.Error(w, "wrong key", http.StatusBadRequest)
					return
				}
			}

			rw := NewResponseHashWriter(w, key)
			next.ServeHTTP(rw, r)
			if _, err := rw.Finalize(); err != nil {
				http.Error(w, "cannot write buffer to response", http.StatusInternalServerError)
			}
		})
	}
}
