// Package spec holds the parsed form of a kvapi API description and builds
// its namespace tree.
//
// A [Specification] is what one `api { ... }` block (or YAML document)
// parses to: a name, an optional base URL, the ordered dictionary entries,
// the header set and an optional global query suffix. [BuildDictionary]
// turns the flat "path -> type" entries into a tree of [Node] values.
//
// Nodes are keyed by their full naming path from the root ([NodeID]), not by
// their last segment, so identically named segments at different positions
// never share a node:
//
//	"x/y": T1   ->  x, x/y (leaf T1)
//	"z/y": T2   ->  z, z/y (leaf T2)
//
// Two entries with the same naming path are a configuration error.
//
// Header values, per-entry queries and the global query are opaque Go
// expressions ([Expression]); result types are opaque Go type expressions
// ([TypeRef]). Both are syntax-checked with go/parser and never evaluated.
package spec
