package kvclient

import (
	"net/http"

	"github.com/erraggy/kvapi"
)

// acceptEncoding is advertised on every request whose caller did not set
// Accept-Encoding itself.
const acceptEncoding = "zstd, br, gzip"

// Option configures NewHTTPClient.
type Option func(*clientConfig)

type clientConfig struct {
	transport http.RoundTripper
	userAgent string
}

// WithTransport sets the underlying RoundTripper.
// Default: http.DefaultTransport
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) {
		cfg.transport = rt
	}
}

// WithUserAgent sets the User-Agent sent when a request has none.
// Default: kvapi.UserAgent()
func WithUserAgent(ua string) Option {
	return func(cfg *clientConfig) {
		cfg.userAgent = ua
	}
}

// NewHTTPClient returns a client whose transport adds header to every
// request and decodes compressed responses. header is copied; a nil header
// adds nothing.
func NewHTTPClient(header http.Header, opts ...Option) *http.Client {
	cfg := clientConfig{
		transport: http.DefaultTransport,
		userAgent: kvapi.UserAgent(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &http.Client{
		Transport: &headerTransport{
			base:      cfg.transport,
			header:    header.Clone(),
			userAgent: cfg.userAgent,
		},
	}
}

// headerTransport applies client-scoped headers. It holds no mutable state
// and is safe for concurrent use.
type headerTransport struct {
	base      http.RoundTripper
	header    http.Header
	userAgent string
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, values := range t.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" && t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	// Setting Accept-Encoding turns off net/http's own gzip handling, so
	// decoding is ours only when we asked for it.
	negotiated := req.Header.Get("Accept-Encoding") == ""
	if negotiated {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || !negotiated {
		return resp, err
	}
	return decompress(resp)
}
