// Package kvclient is the runtime used by code generated by kvapi.
//
// Generated leaf types build one *http.Client each with NewHTTPClient,
// passing their client-scoped headers, and issue every call through Do,
// passing their per-request headers. Do makes exactly one attempt: there is
// no retry, backoff or timeout policy beyond what the caller's context and
// client impose.
//
// Responses compressed with zstd, brotli or gzip are decoded transparently.
// Bodies are decoded as JSON unless the response declares a YAML content
// type.
//
// The helpers Query, MustQuery, RequestID, UnixMillis, SignHMACSHA256 and
// SignHMACSHA256Hex exist to be called from header and query expressions:
//
//	head: {
//	    #[query]
//	    "KC-API-TIMESTAMP": kvclient.UnixMillis(),
//	}
package kvclient
