package kvclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"go.yaml.in/yaml/v4"
)

// RequestHeader is a header evaluated on every request. Value receives the
// leaf's client and URL.
type RequestHeader struct {
	Key   string
	Value func(client *http.Client, url string) string
}

// yamlTypes are the media types decoded as YAML instead of JSON.
var yamlTypes = map[string]bool{
	"application/yaml":   true,
	"application/x-yaml": true,
	"text/yaml":          true,
	"text/x-yaml":        true,
}

// Do sends one request and decodes the response into out.
//
// A non-nil body is sent as JSON. Every RequestHeader is evaluated for this
// call only. A non-2xx status yields a *StatusError and a body that does
// not decode yields a *DecodeError, as does an empty body on any 2xx status
// but 204 and 205. Those two leave out untouched, as does a nil out. Do
// writes nothing shared and may be called concurrently.
func Do(ctx context.Context, client *http.Client, method, endpoint string, body any, headers []RequestHeader, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("kvclient: %s %s: encode body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("kvclient: %s %s: %w", method, endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		req.Header.Add(h.Key, h.Value(client, endpoint))
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("kvclient: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       snippet,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("kvclient: %s %s: read body: %w", method, endpoint, err)
	}
	if out == nil {
		return nil
	}
	contentType := resp.Header.Get("Content-Type")
	if len(bytes.TrimSpace(data)) == 0 {
		// 204 and 205 never carry a body; any other empty body cannot be
		// the endpoint's result.
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
			return nil
		}
		return &DecodeError{Method: method, URL: endpoint, ContentType: contentType, Err: ErrEmptyBody}
	}

	if err := decode(contentType, data, out); err != nil {
		return &DecodeError{Method: method, URL: endpoint, ContentType: contentType, Err: err}
	}
	return nil
}

func decode(contentType string, data []byte, out any) error {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && yamlTypes[mediaType] {
		return yaml.Unmarshal(data, out)
	}
	return json.Unmarshal(data, out)
}
