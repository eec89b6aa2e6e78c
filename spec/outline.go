package spec

// Outline is a serializable view of a validated description: its tree, the
// composed URL of every leaf and its headers by scope.
type Outline struct {
	Name    string          `json:"name" yaml:"name"`
	Source  string          `json:"source,omitempty" yaml:"source,omitempty"`
	Base    string          `json:"base,omitempty" yaml:"base,omitempty"`
	Query   string          `json:"query,omitempty" yaml:"query,omitempty"`
	Headers []OutlineHeader `json:"headers,omitempty" yaml:"headers,omitempty"`
	Roots   []NodeID        `json:"roots" yaml:"roots"`
	Nodes   []OutlineNode   `json:"nodes" yaml:"nodes"`
}

// OutlineHeader is one header with its value in canonical form.
type OutlineHeader struct {
	Key   string      `json:"key" yaml:"key"`
	Value string      `json:"value" yaml:"value"`
	Scope HeaderScope `json:"scope" yaml:"scope"`
}

// OutlineNode is one node of the tree, in creation order.
type OutlineNode struct {
	ID       NodeID           `json:"id" yaml:"id"`
	Segment  string           `json:"segment" yaml:"segment"`
	Parent   NodeID           `json:"parent,omitempty" yaml:"parent,omitempty"`
	Depth    int              `json:"depth" yaml:"depth"`
	Root     bool             `json:"root,omitempty" yaml:"root,omitempty"`
	Children []NodeID         `json:"children,omitempty" yaml:"children,omitempty"`
	Endpoint *OutlineEndpoint `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// OutlineEndpoint describes a leaf. URL holds the composed URL parts as Go
// operands, in concatenation order.
type OutlineEndpoint struct {
	Path   string   `json:"path" yaml:"path"`
	Result string   `json:"result" yaml:"result"`
	URL    []string `json:"url" yaml:"url"`
	Pos    Position `json:"pos,omitzero" yaml:"pos,omitempty"`
}

// Outline returns the outline of s. The dictionary must have been built by
// Validate; otherwise only the top-level fields are filled in.
func (s *Specification) Outline() Outline {
	o := Outline{
		Name:   s.Name,
		Source: s.SourcePath,
		Base:   s.BaseURL(),
	}
	if s.Query != nil {
		o.Query = s.Query.Canonical()
	}
	for _, h := range s.Headers.All() {
		o.Headers = append(o.Headers, OutlineHeader{Key: h.Key, Value: h.Value.Canonical(), Scope: h.Scope})
	}
	if s.Dict == nil {
		return o
	}

	o.Roots = s.Dict.Roots()
	for _, n := range s.Dict.Nodes() {
		on := OutlineNode{
			ID:       n.ID,
			Segment:  n.Segment,
			Parent:   n.Parent,
			Depth:    n.Depth,
			Root:     n.IsRoot,
			Children: n.Children,
		}
		if n.IsLeaf() {
			ep := &OutlineEndpoint{
				Path:   n.Endpoint.Path,
				Result: n.Endpoint.ResultType.String(),
				Pos:    n.Endpoint.Pos,
			}
			for _, p := range s.ComposeURL(n.Endpoint) {
				ep.URL = append(ep.URL, p.String())
			}
			on.Endpoint = ep
		}
		o.Nodes = append(o.Nodes, on)
	}
	return o
}

// Leaves returns the leaf nodes of the outline.
func (o Outline) Leaves() []OutlineNode {
	var out []OutlineNode
	for _, n := range o.Nodes {
		if n.Endpoint != nil {
			out = append(out, n)
		}
	}
	return out
}
