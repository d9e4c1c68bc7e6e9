package ir

import "fmt"

// Attribute is the exported value backing a parameter, buffer, or
// lifted tensor constant. Data holds the flattened elements when the
// exporter could concretize them; a nil Data with a known shape marks a
// symbolic, data-dependent value (resolved to a named symbol at encode
// time).
type Attribute struct {
	Shape []int
	Data  []float64
}

// NumElements returns the element count of a shape. The empty shape is
// a scalar with one element.
func NumElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Graph is an ordered node stream in definition (topological) order,
// together with the exporter's signature: which placeholders are backed
// by parameters, buffers, or lifted constants, and their values.
type Graph struct {
	// Name identifies the graph in artifacts and logs.
	Name string
	// Nodes is the node stream in definition order.
	Nodes []*Node

	// Parameters, Buffers, and TensorConstants name the placeholders
	// bound to exported state rather than free inputs.
	Parameters      map[string]bool
	Buffers         map[string]bool
	TensorConstants map[string]bool

	// Attributes maps a placeholder target name to its exported value.
	Attributes map[string]*Attribute

	byName map[string]*Node
}

// IsParameter reports whether the placeholder is backed by exported
// state: a parameter, buffer, or lifted tensor constant.
func (g *Graph) IsParameter(n *Node) bool {
	if n.Kind != KindPlaceholder {
		return false
	}
	t := n.Key()
	return g.Parameters[t] || g.Buffers[t] || g.TensorConstants[t]
}

// Attribute returns the exported value for a placeholder, if any.
func (g *Graph) Attribute(n *Node) (*Attribute, bool) {
	a, ok := g.Attributes[n.Key()]
	return a, ok
}

// Node returns the node with the given name, if present.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// OutputNode returns the graph's designated output node, if present.
func (g *Graph) OutputNode() (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Kind == KindOutput {
			return n, true
		}
	}
	return nil, false
}

// Finalize computes the user lists and the name index. It must be
// called once after construction, before encoding; the graph is
// read-only afterwards.
func (g *Graph) Finalize() error {
	g.byName = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := g.byName[n.Name]; dup {
			return fmt.Errorf("ir: duplicate node name %q", n.Name)
		}
		g.byName[n.Name] = n
		n.users = nil
	}
	for _, n := range g.Nodes {
		if n.Kind != KindCall {
			continue
		}
		for _, a := range n.Args {
			addUsers(n, a)
		}
		for _, a := range n.Kwargs {
			addUsers(n, a)
		}
	}
	return nil
}

func addUsers(user *Node, a Arg) {
	switch v := a.(type) {
	case NodeRef:
		if v.Node != nil {
			v.Node.users = append(v.Node.users, user)
		}
	case ListArg:
		for _, e := range v {
			addUsers(user, e)
		}
	}
}
