package respcache

import (
	"bytes"
	"compress/gzip"
	"net/http"
)

// captured buffers a handler's response so the middleware can store,
// compress and rewrite it before anything reaches the client. A handler
// that flushes is treated as streaming: buffered output is forwarded and
// every later write passes straight through, untouched by the cache.
type captured struct {
	under       http.ResponseWriter
	header      http.Header
	body        bytes.Buffer
	status      int
	streamed    bool
	wroteHeader bool
}

func newCaptured(w http.ResponseWriter) *captured {
	return &captured{under: w, header: http.Header{}, status: http.StatusOK}
}

func (c *captured) Header() http.Header {
	if c.streamed {
		return c.under.Header()
	}
	return c.header
}

func (c *captured) WriteHeader(status int) {
	if c.streamed {
		c.under.WriteHeader(status)
		return
	}
	if !c.wroteHeader {
		c.status = status
		c.wroteHeader = true
	}
}

func (c *captured) Write(p []byte) (int, error) {
	if c.streamed {
		return c.under.Write(p)
	}
	return c.body.Write(p)
}

// Flush switches to pass-through mode, replaying what was buffered so far.
func (c *captured) Flush() {
	if !c.streamed {
		c.streamed = true
		copyHeader(c.under.Header(), c.header)
		c.under.WriteHeader(c.status)
		_, _ = c.under.Write(c.body.Bytes())
		c.body.Reset()
	}
	if f, ok := c.under.(http.Flusher); ok {
		f.Flush()
	}
}

// writeTo commits the buffered response to the real writer.
func (c *captured) writeTo(w http.ResponseWriter) {
	copyHeader(w.Header(), c.header)
	w.WriteHeader(c.status)
	if c.body.Len() > 0 {
		_, _ = w.Write(c.body.Bytes())
	}
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		dst[k] = append([]string(nil), vv...)
	}
}

func gzipBytes(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
