package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/symgraph/internal/ir"
)

// Error code constants for the loader and commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeGraphShape = "E101" // Graph document does not decode
	ErrCodeBadNode    = "E102" // Node with unusable kind or reference
	ErrCodeBadArg     = "E103" // Argument does not match any variant

	ErrCodeEncodeFailed = "E120" // Encoding pass failed
	ErrCodePlanFailed   = "E130" // Memory-plan verification failed
	ErrCodeStoreFailed  = "E140" // Run catalog access failed
)

// LoadError represents an error that occurred during graph loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Graph documents are authored in CUE. The document decodes into this
// intermediate form first; argument variants are distinguished by which
// field is present.
type graphDoc struct {
	Name       string             `json:"name"`
	Nodes      []nodeDoc          `json:"nodes"`
	Parameters []string           `json:"parameters"`
	Buffers    []string           `json:"buffers"`
	Constants  []string           `json:"constants"`
	Attributes map[string]attrDoc `json:"attributes"`
}

type nodeDoc struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Target string            `json:"target"`
	Op     string            `json:"op"`
	Args   []argDoc          `json:"args"`
	Kwargs map[string]argDoc `json:"kwargs"`
	Meta   metaDoc           `json:"meta"`
}

type metaDoc struct {
	Shape        []int  `json:"shape"`
	DType        string `json:"dtype"`
	MemoryFormat string `json:"memory_format"`
	ChannelsLast bool   `json:"channels_last"`
}

type argDoc struct {
	Node  *string  `json:"node"`
	Int   *int64   `json:"int"`
	Float *float64 `json:"float"`
	Bool  *bool    `json:"bool"`
	Str   *string  `json:"str"`
	Ints  []int    `json:"ints"`
	List  []argDoc `json:"list"`
	None  bool     `json:"none"`
}

type attrDoc struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// LoadGraph reads a CUE graph document from a file and builds the IR
// graph, resolving node references and finalizing user lists.
func LoadGraph(path string) (*ir.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("graph document not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading graph document: %v", err)}
	}
	return ParseGraph(data)
}

// ParseGraph builds an IR graph from CUE document bytes.
func ParseGraph(data []byte) (*ir.Graph, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	graphVal := value.LookupPath(cue.ParsePath("graph"))
	if !graphVal.Exists() {
		// Allow the document itself to be the graph struct.
		graphVal = value
	}

	var doc graphDoc
	if err := graphVal.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeGraphShape, Message: fmt.Sprintf("decoding graph document: %v", err)}
	}

	return buildGraph(&doc)
}

func buildGraph(doc *graphDoc) (*ir.Graph, error) {
	g := &ir.Graph{
		Name:            doc.Name,
		Parameters:      toBoolSet(doc.Parameters),
		Buffers:         toBoolSet(doc.Buffers),
		TensorConstants: toBoolSet(doc.Constants),
		Attributes:      make(map[string]*ir.Attribute, len(doc.Attributes)),
	}
	for name, a := range doc.Attributes {
		g.Attributes[name] = &ir.Attribute{Shape: a.Shape, Data: a.Data}
	}

	// Two passes: create nodes so forward references resolve, then fill
	// in arguments. Graph documents are definition-ordered, but the
	// loader does not depend on it.
	byName := make(map[string]*ir.Node, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		kind, err := parseKind(nd.Kind)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadNode, Message: fmt.Sprintf("node %q: %v", nd.Name, err)}
		}
		n := &ir.Node{
			Name:   nd.Name,
			Target: nd.Target,
			Kind:   kind,
			Op:     nd.Op,
			Meta: ir.Meta{
				Shape:        nd.Meta.Shape,
				DType:        nd.Meta.DType,
				MemoryFormat: nd.Meta.MemoryFormat,
				ChannelsLast: nd.Meta.ChannelsLast,
			},
		}
		if _, dup := byName[nd.Name]; dup {
			return nil, &LoadError{Code: ErrCodeBadNode, Message: fmt.Sprintf("duplicate node name %q", nd.Name)}
		}
		byName[nd.Name] = n
		g.Nodes = append(g.Nodes, n)
	}

	for i, nd := range doc.Nodes {
		n := g.Nodes[i]
		for _, ad := range nd.Args {
			arg, err := buildArg(ad, byName)
			if err != nil {
				return nil, &LoadError{Code: ErrCodeBadArg, Message: fmt.Sprintf("node %q: %v", nd.Name, err)}
			}
			n.Args = append(n.Args, arg)
		}
		if len(nd.Kwargs) > 0 {
			n.Kwargs = make(map[string]ir.Arg, len(nd.Kwargs))
			for k, ad := range nd.Kwargs {
				arg, err := buildArg(ad, byName)
				if err != nil {
					return nil, &LoadError{Code: ErrCodeBadArg, Message: fmt.Sprintf("node %q kwarg %q: %v", nd.Name, k, err)}
				}
				n.Kwargs[k] = arg
			}
		}
	}

	if err := g.Finalize(); err != nil {
		return nil, &LoadError{Code: ErrCodeBadNode, Message: err.Error()}
	}
	return g, nil
}

func buildArg(ad argDoc, byName map[string]*ir.Node) (ir.Arg, error) {
	switch {
	case ad.Node != nil:
		ref, ok := byName[*ad.Node]
		if !ok {
			return nil, fmt.Errorf("argument references unknown node %q", *ad.Node)
		}
		return ir.NodeRef{Node: ref}, nil
	case ad.Int != nil:
		return ir.IntArg(*ad.Int), nil
	case ad.Float != nil:
		return ir.FloatArg(*ad.Float), nil
	case ad.Bool != nil:
		return ir.BoolArg(*ad.Bool), nil
	case ad.Str != nil:
		return ir.StrArg(*ad.Str), nil
	case ad.Ints != nil:
		return ir.IntsArg(ad.Ints), nil
	case ad.List != nil:
		list := make(ir.ListArg, 0, len(ad.List))
		for _, e := range ad.List {
			arg, err := buildArg(e, byName)
			if err != nil {
				return nil, err
			}
			list = append(list, arg)
		}
		return list, nil
	case ad.None:
		return ir.NoneArg{}, nil
	default:
		return nil, fmt.Errorf("argument matches no variant (node/int/float/bool/str/ints/list/none)")
	}
}

func parseKind(kind string) (ir.Kind, error) {
	switch kind {
	case "placeholder":
		return ir.KindPlaceholder, nil
	case "call", "call_function":
		return ir.KindCall, nil
	case "output":
		return ir.KindOutput, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", kind)
	}
}

func toBoolSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}
