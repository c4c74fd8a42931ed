package compress

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

type gzipWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

var gzPoolWriter = sync.Pool{
	New: func() any {
		w, err := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		if err != nil {
			panic(err)
		}
		return w
	},
}

var gzPoolReader = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// GzipHandleReader transparently inflates request bodies sent with
// Content-Encoding: gzip.
func GzipHandleReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzPoolReader.Get().(*gzip.Reader)
		defer gzPoolReader.Put(gz)

		if err := gz.Reset(r.Body); err != nil {
			http.Error(w, "invalid gzip body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		r.Body = gz
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}

func (w gzipWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

// GzipHandleWriter compresses responses for clients that accept gzip.
func GzipHandleWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")

		gz := gzPoolWriter.Get().(*gzip.Writer)
		defer gzPoolWriter.Put(gz)

		gz.Reset(w)
		defer gz.Close()

		next.ServeHTTP(gzipWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept-Encoding") {
		for _, part := range strings.Split(v, ",") {
			enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
			if strings.EqualFold(enc, "gzip") {
				return true
			}
		}
	}
	return false
}
