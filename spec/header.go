package spec

import "slices"

// HeaderScope says when a header value is evaluated.
type HeaderScope int

const (
	// ScopeClient headers are evaluated once, when the leaf client is built.
	ScopeClient HeaderScope = iota
	// ScopePerRequest headers are evaluated on every call and may read the
	// leaf's client and URL.
	ScopePerRequest
)

func (s HeaderScope) String() string {
	switch s {
	case ScopeClient:
		return "client"
	case ScopePerRequest:
		return "per-request"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s HeaderScope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Header is one "Key": value entry of the headers block.
type Header struct {
	Key   string
	Value Expression
	Scope HeaderScope
	Pos   Position
}

type headerKey struct {
	key   string
	value string
}

// HeaderSet is an ordered set of headers keyed by (Key, canonical Value).
// The zero value is an empty set ready to use.
type HeaderSet struct {
	headers []Header
	seen    map[headerKey]struct{}
}

// Add inserts h unless a header with the same key and value expression is
// already present, in which case the first one (and its scope) is kept.
// It reports whether h was inserted.
func (s *HeaderSet) Add(h Header) bool {
	k := headerKey{key: h.Key, value: h.Value.Canonical()}
	if _, dup := s.seen[k]; dup {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[headerKey]struct{})
	}
	s.seen[k] = struct{}{}
	s.headers = append(s.headers, h)
	return true
}

// All returns every header in first-seen order.
func (s *HeaderSet) All() []Header {
	if s == nil {
		return nil
	}
	return slices.Clone(s.headers)
}

// Client returns the client-scoped headers in first-seen order.
func (s *HeaderSet) Client() []Header {
	return s.scoped(ScopeClient)
}

// PerRequest returns the per-request headers in first-seen order.
func (s *HeaderSet) PerRequest() []Header {
	return s.scoped(ScopePerRequest)
}

// Len returns the number of distinct headers.
func (s *HeaderSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.headers)
}

func (s *HeaderSet) scoped(scope HeaderScope) []Header {
	if s == nil {
		return nil
	}
	var out []Header
	for _, h := range s.headers {
		if h.Scope == scope {
			out = append(out, h)
		}
	}
	return out
}
