package kvclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

// queryEncoder is shared; schema.Encoder caches struct metadata and is
// safe for concurrent use.
var queryEncoder = schema.NewEncoder()

// Query encodes the fields of a struct as a URL query string, including the
// leading '?'. Field names come from `schema` struct tags. An empty result
// is "".
func Query(v any) (string, error) {
	values := url.Values{}
	if err := queryEncoder.Encode(v, values); err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return "?" + values.Encode(), nil
}

// MustQuery is like Query but panics on error. It is meant for query
// expressions over fixed, known-good structs.
func MustQuery(v any) string {
	q, err := Query(v)
	if err != nil {
		panic(err)
	}
	return q
}

// RequestID returns a random UUID, for idempotency and tracing headers.
func RequestID() string {
	return uuid.NewString()
}

// UnixMillis returns the current time in milliseconds since the epoch.
func UnixMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// SignHMACSHA256 returns the base64-encoded HMAC-SHA256 of msg.
func SignHMACSHA256(secret, msg string) string {
	return base64.StdEncoding.EncodeToString(hmacSHA256(secret, msg))
}

// SignHMACSHA256Hex returns the hex-encoded HMAC-SHA256 of msg.
func SignHMACSHA256Hex(secret, msg string) string {
	return hex.EncodeToString(hmacSHA256(secret, msg))
}

func hmacSHA256(secret, msg string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
