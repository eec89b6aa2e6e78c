package kvclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticker struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Price  string `json:"price" yaml:"price"`
}

func TestDoPerRequestHeaders(t *testing.T) {
	seen := make(chan string, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("X-Seq") + " " + r.Header.Get("X-Sign")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(nil)
	endpoint := srv.URL + "/api/v3/ticker"
	n := 0
	headers := []RequestHeader{
		{Key: "X-Seq", Value: func(_ *http.Client, _ string) string {
			n++
			return strings.Repeat("x", n)
		}},
		{Key: "X-Sign", Value: func(c *http.Client, u string) string {
			if c != client {
				return "wrong client"
			}
			return SignHMACSHA256Hex("secret", u)
		}},
	}

	var out map[string]any
	for range 3 {
		require.NoError(t, Do(context.Background(), client, http.MethodGet, endpoint, nil, headers, &out))
	}

	sign := SignHMACSHA256Hex("secret", endpoint)
	assert.Equal(t, "x "+sign, <-seen)
	assert.Equal(t, "xx "+sign, <-seen, "per-request headers are evaluated again on every call")
	assert.Equal(t, "xxx "+sign, <-seen)
}

func TestDoPost(t *testing.T) {
	type order struct {
		Symbol string `json:"symbol"`
		Qty    int    `json:"qty"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "want JSON POST", http.StatusBadRequest)
			return
		}
		var in order
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"` + in.Symbol + `","price":"1"}`))
	}))
	defer srv.Close()

	var out ticker
	err := Do(context.Background(), NewHTTPClient(nil), http.MethodPost, srv.URL, order{Symbol: "SUIUSDT", Qty: 2}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, ticker{Symbol: "SUIUSDT", Price: "1"}, out)
}

func TestDoYAML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write([]byte("symbol: BNBBTC\nprice: \"0.01\"\n"))
	}))
	defer srv.Close()

	var out ticker
	require.NoError(t, Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, &out))
	assert.Equal(t, ticker{Symbol: "BNBBTC", Price: "0.01"}, out)
}

func TestDoStatusError(t *testing.T) {
	long := strings.Repeat("e", 2*maxErrorBody)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, long, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out ticker
	err := Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, &out)
	require.ErrorIs(t, err, ErrStatus)
	assert.NotErrorIs(t, err, ErrDecode)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, http.MethodGet, se.Method)
	assert.Equal(t, srv.URL, se.URL)
	assert.Len(t, se.Body, maxErrorBody)
	assert.Contains(t, err.Error(), "429 Too Many Requests")
}

func TestDoDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": 42}`))
	}))
	defer srv.Close()

	var out ticker
	err := Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, &out)
	require.ErrorIs(t, err, ErrDecode)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "application/json", de.ContentType)
	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr), "the decoder error is unwrapped")
}

func TestDoEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out := ticker{Symbol: "kept"}
	require.NoError(t, Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, &out))
	assert.Equal(t, "kept", out.Symbol)
	require.NoError(t, Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, nil))
}

func TestDoEmptySuccessBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		out     bool
		wantErr bool
	}{
		{name: "200 empty", status: http.StatusOK, out: true, wantErr: true},
		{name: "200 whitespace", status: http.StatusOK, body: " \n", out: true, wantErr: true},
		{name: "201 empty", status: http.StatusCreated, out: true, wantErr: true},
		{name: "205 empty", status: http.StatusResetContent, out: true},
		{name: "200 empty without result", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out *ticker
			if tt.out {
				out = &ticker{Symbol: "kept"}
			}
			var err error
			if out != nil {
				err = Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, out)
			} else {
				err = Do(context.Background(), NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, nil)
			}
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
			assert.ErrorIs(t, err, ErrEmptyBody)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "application/json", de.ContentType)
			assert.Equal(t, "kept", out.Symbol)
		})
	}
}

func TestDoTransportErrors(t *testing.T) {
	t.Run("bad URL", func(t *testing.T) {
		err := Do(context.Background(), NewHTTPClient(nil), http.MethodGet, "://nope", nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "://nope")
	})

	t.Run("unencodable body", func(t *testing.T) {
		err := Do(context.Background(), NewHTTPClient(nil), http.MethodPost, "http://example.invalid", make(chan int), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encode body")
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Do(ctx, NewHTTPClient(nil), http.MethodGet, srv.URL, nil, nil, nil)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("transport failure", func(t *testing.T) {
		failing := roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, io.ErrUnexpectedEOF
		})
		err := Do(context.Background(), NewHTTPClient(nil, WithTransport(failing)), http.MethodGet, "http://example.invalid/x", nil, nil, nil)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "http://example.invalid/x")
	})
}
