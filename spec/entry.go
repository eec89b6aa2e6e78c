package spec

// Entry is one "path": Type record of a dictionary.
type Entry struct {
	// Path is the endpoint path as written. It is used verbatim in the URL.
	Path string
	// ResultType is the decode target of the endpoint.
	ResultType TypeRef
	// Query is appended to Path when the URL is built (optional).
	Query *Expression
	// Rename replaces Path for tree placement only (optional).
	Rename *string
	// Pos is where the entry starts.
	Pos Position
}

// NamingPath returns the path that decides where the entry sits in the tree.
func (e Entry) NamingPath() string {
	if e.Rename != nil {
		return *e.Rename
	}
	return e.Path
}
