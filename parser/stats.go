package parser

import "github.com/erraggy/kvapi/spec"

// Stats contains statistical information about an API description
type Stats struct {
	EntryCount      int // Number of dictionary entries
	NodeCount       int // Number of tree nodes
	RootCount       int // Number of root nodes
	LeafCount       int // Number of endpoint nodes
	HeaderCount     int // Number of distinct headers
	PerRequestCount int // Number of per-request headers
}

// GetStats returns statistics for a parsed description
func GetStats(s *spec.Specification) Stats {
	if s == nil {
		return Stats{}
	}
	stats := Stats{
		EntryCount:      len(s.Entries),
		HeaderCount:     s.Headers.Len(),
		PerRequestCount: len(s.Headers.PerRequest()),
	}
	if s.Dict != nil {
		stats.NodeCount = s.Dict.Len()
		stats.RootCount = len(s.Dict.Roots())
		stats.LeafCount = len(s.Dict.Leaves())
	}
	return stats
}
