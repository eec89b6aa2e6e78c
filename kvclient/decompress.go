// Response body decompression based on Content-Encoding.

package kvclient

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxZstdWindow bounds the memory a zstd stream may ask the decoder for.
const maxZstdWindow = 64 << 20

// decodedBody reads the decompressed stream and closes both the decoder
// and the original body.
type decodedBody struct {
	r     io.Reader
	close func()
	body  io.ReadCloser
}

func (d *decodedBody) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decodedBody) Close() error {
	if d.close != nil {
		d.close()
	}
	return d.body.Close()
}

// decompress replaces resp.Body with a decoder for its Content-Encoding.
// Unknown encodings are passed through untouched.
func decompress(resp *http.Response) (*http.Response, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	var body *decodedBody
	switch encoding {
	case "zstd":
		dec, err := zstd.NewReader(resp.Body, zstd.WithDecoderMaxMemory(maxZstdWindow))
		if err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("kvclient: invalid zstd response: %w", err)
		}
		body = &decodedBody{r: dec, close: dec.Close, body: resp.Body}
	case "br":
		body = &decodedBody{r: brotli.NewReader(resp.Body), body: resp.Body}
	case "gzip":
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("kvclient: invalid gzip response: %w", err)
		}
		body = &decodedBody{r: gr, close: func() { _ = gr.Close() }, body: resp.Body}
	default:
		return resp, nil
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}
