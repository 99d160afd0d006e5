package bixf

// Attr is one named attribute of a node. Values are text.
type Attr struct {
	Name  string
	Value string
}

// Node is an element with ordered attributes and children.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
}

// Document is an ordered list of top-level nodes.
type Document struct {
	Nodes []*Node
}

// NewNode returns a node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Attr returns the value of the first attribute called name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttr replaces the value of attribute name, or appends it.
func (n *Node) SetAttr(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})

	return n
}

// AddChild appends child and returns it.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Find returns the direct children called name.
func (n *Node) Find(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}

	return out
}

// Walk visits every node depth-first, parents before children. It stops
// early when fn returns false.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int) bool
	walk = func(n *Node, depth int) bool {
		if !fn(n, depth) {
			return false
		}

		for _, c := range n.Children {
			if !walk(c, depth+1) {
				return false
			}
		}

		return true
	}

	for _, n := range d.Nodes {
		if !walk(n, 0) {
			return
		}
	}
}
