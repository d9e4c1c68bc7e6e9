package ir

import "fmt"

// Kind classifies a node in the graph.
type Kind int

const (
	// KindPlaceholder declares a graph input, parameter, or buffer.
	KindPlaceholder Kind = iota
	// KindCall applies an operator to ordered arguments.
	KindCall
	// KindOutput designates the graph's produced values.
	KindOutput
)

// String returns the exporter spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindCall:
		return "call_function"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MemoryFormat values recognized in node metadata.
const (
	FormatContiguous   = "contiguous"
	FormatChannelsLast = "channels_last"
)

// Meta is the metadata bag attached to a node by the exporter. All
// fields are optional hints; absence of a shape is a first-class state
// that encoders must handle explicitly.
type Meta struct {
	// Shape is the value's shape, or nil when unknown.
	Shape []int
	// DType is the element type hint (e.g. "float32").
	DType string
	// MemoryFormat is the layout hint ("", contiguous, channels_last).
	MemoryFormat string
	// ChannelsLast marks nodes whose stored axis order is NHWC and
	// must be remapped before layout-sensitive encoding.
	ChannelsLast bool
}

// ShapeOK returns the shape and whether one is known. Callers must
// handle the absent case rather than treating nil as a scalar.
func (m Meta) ShapeOK() ([]int, bool) {
	if m.Shape == nil {
		return nil, false
	}
	return m.Shape, true
}

// Node is one instruction/value in the graph. The encoder treats nodes
// as read-only; identity is the Key, which is unique per graph.
type Node struct {
	// Name is the node's unique name within the graph.
	Name string
	// Target is the declared input name for placeholders ("x", "w").
	Target string
	// Kind is the node classification.
	Kind Kind
	// Op is the operator identity for call nodes
	// (e.g. "aten.add.Tensor").
	Op string
	// Args is the ordered argument list.
	Args []Arg
	// Kwargs holds keyword arguments (sdpa scale, memory_format).
	Kwargs map[string]Arg
	// Meta is the metadata bag.
	Meta Meta

	users []*Node
}

// Key returns the register-file identity of the node: the declared
// target name for placeholders, the node name otherwise.
func (n *Node) Key() string {
	if n.Kind == KindPlaceholder && n.Target != "" {
		return n.Target
	}
	return n.Name
}

// Users returns the call nodes consuming this node's value, in graph
// order. Populated by Graph.Finalize.
func (n *Node) Users() []*Node { return n.users }

// Kwarg returns the named keyword argument, if present.
func (n *Node) Kwarg(name string) (Arg, bool) {
	a, ok := n.Kwargs[name]
	return a, ok
}

// String implements fmt.Stringer for diagnostics.
func (n *Node) String() string {
	if n.Kind == KindCall {
		return fmt.Sprintf("%%%s = %s", n.Key(), n.Op)
	}
	return fmt.Sprintf("%%%s (%s)", n.Key(), n.Kind)
}
