package middleware

import (
	"bufio"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// compressResponseWriter wraps http.ResponseWriter to write through a
// compressing writer.
type compressResponseWriter struct {
	io.Writer
	http.ResponseWriter
	wroteHeader bool
}

func (w *compressResponseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

// Hijack delegates to the wrapped writer so WebSocket upgrades work through
// the middleware chain.
func (w *compressResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

func (w *compressResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Compress returns a middleware that compresses responses, preferring
// brotli when the client accepts it and falling back to gzip.
func Compress(next http.Handler) http.Handler {
	// Pool writers to reduce allocations
	brPool := sync.Pool{
		New: func() interface{} {
			return brotli.NewWriter(io.Discard)
		},
	}
	gzPool := sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never wrap protocol upgrades; the hijacked connection must not
		// pass through a compressing writer.
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}

		accept := r.Header.Get("Accept-Encoding")

		switch {
		case strings.Contains(accept, "br"):
			br := brPool.Get().(*brotli.Writer)
			defer brPool.Put(br)
			br.Reset(w)
			defer br.Close()

			w.Header().Set("Content-Encoding", "br")
			w.Header().Del("Content-Length") // Length changes after compression

			next.ServeHTTP(&compressResponseWriter{Writer: br, ResponseWriter: w}, r)

		case strings.Contains(accept, "gzip"):
			gz := gzPool.Get().(*gzip.Writer)
			defer gzPool.Put(gz)
			gz.Reset(w)
			defer gz.Close()

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Del("Content-Length")

			next.ServeHTTP(&compressResponseWriter{Writer: gz, ResponseWriter: w}, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}
