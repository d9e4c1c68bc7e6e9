// Package ir holds the tensor-program graph representation consumed by
// the symbolic encoder and the eligibility filter.
//
// The graph is an opaque, ordered node stream produced by a host
// exporter: placeholder nodes declare inputs, parameters, and buffers;
// call nodes apply an operator to ordered arguments; the output node
// designates the produced values. The encoder reads nodes but never
// mutates them. All encoder state lives in its own register file,
// keyed by node identity.
package ir
