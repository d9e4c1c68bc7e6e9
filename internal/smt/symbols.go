package smt

import (
	"fmt"
	"strings"
)

// Deterministic symbol naming for uninterpreted tensor operations.
//
// The symbol name embeds the operator and its shape/axis parameters so
// that structurally identical operations produce syntactically identical
// function symbols. Downstream equivalence checking depends on this:
// two identical reshapes of the same operand normalize to the same term.

// FormatShape renders a shape as "2x3x4". The empty shape (unknown or
// scalar) renders as "_".
func FormatShape(shape []int) string {
	if len(shape) == 0 {
		return "_"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, "x")
}

func formatPerm(perm []int) string {
	parts := make([]string, len(perm))
	for i, d := range perm {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, "_")
}

// Reshape builds the uninterpreted reshape application. Both shapes are
// embedded verbatim in the symbol name for debuggability.
func Reshape(x Expr, oldShape, newShape []int) Expr {
	fn := fmt.Sprintf("reshape_%s_%s", FormatShape(oldShape), FormatShape(newShape))
	return UninterpretedCall(fn, x)
}

// TransposeND builds the uninterpreted n-dimensional transpose for a
// permutation order.
func TransposeND(x Expr, perm []int) Expr {
	return UninterpretedCall("transpose_"+formatPerm(perm), x)
}

// Slice builds the uninterpreted stride-1 slice application.
func Slice(x Expr, shape []int, dim, start, size int) Expr {
	fn := fmt.Sprintf("slice_%s_d%d_s%d_n%d", FormatShape(shape), dim, start, size)
	return UninterpretedCall(fn, x)
}

// SelectDim builds the uninterpreted single-index select application.
func SelectDim(x Expr, shape []int, dim, index int) Expr {
	fn := fmt.Sprintf("select_%s_d%d_i%d", FormatShape(shape), dim, index)
	return UninterpretedCall(fn, x)
}

// Concat builds the uninterpreted concatenation of the inputs along an
// axis. The symbol encodes both the axis and the input count.
func Concat(axis int, inputs []Expr) Expr {
	fn := fmt.Sprintf("concat_axis%d_n%d", axis, len(inputs))
	return UninterpretedCall(fn, inputs...)
}

// ExpandShape builds the uninterpreted broadcast-expand application.
func ExpandShape(x Expr, oldShape, newShape []int) Expr {
	fn := fmt.Sprintf("expand_%s_%s", FormatShape(oldShape), FormatShape(newShape))
	return UninterpretedCall(fn, x)
}

// Unsqueeze builds the uninterpreted size-1 dimension insertion.
func Unsqueeze(x Expr, dim int) Expr {
	return UninterpretedCall(fmt.Sprintf("unsqueeze_d%d", dim), x)
}

// Gather builds the uninterpreted embedding lookup used when the weight
// expression does not carry Array sort (the common case: weights arrive
// as synthesized scalars or named symbols).
func Gather(weight, indices Expr) Expr {
	return UninterpretedCall("gather", weight, indices)
}

// ScatterND builds the uninterpreted index_put application over a base
// tensor, merged index expression, and value expression.
func ScatterND(base, indices, value Expr) Expr {
	return UninterpretedCall("scatter", base, indices, value)
}

// Softmax builds the uninterpreted softmax along a dimension.
func Softmax(x Expr, dim int) Expr {
	return UninterpretedCall(fmt.Sprintf("softmax_d%d", dim), x)
}

// GlobalAvgPool2D builds the uninterpreted global average pool over the
// two innermost dimensions of a 4-D input.
func GlobalAvgPool2D(x Expr, shape []int) Expr {
	return UninterpretedCall("gap_"+FormatShape(shape), x)
}

// MM builds the uninterpreted 2-D matrix multiplication.
func MM(a, b Expr) Expr { return UninterpretedCall("mm", a, b) }

// BMM builds the uninterpreted batch matrix multiplication. The symbol
// is distinct from MM so batch and non-batch variants never unify.
func BMM(a, b Expr) Expr { return UninterpretedCall("bmm", a, b) }

// SDPA builds the uninterpreted scaled-dot-product-attention application.
func SDPA(q, k, v, mask, scale Expr) Expr {
	return UninterpretedCall("sdpa", q, k, v, mask, scale)
}

// DimOrderCopy builds the uninterpreted dim-order copy pass-through.
func DimOrderCopy(x Expr) Expr {
	return UninterpretedCall("dim_order_copy", x)
}

// Tuple packs multiple output expressions into one ordered term.
func Tuple(elems ...Expr) Expr {
	return UninterpretedCall("tuple", elems...)
}

// CanTranspose reports whether the expression variant supports a 2-D
// weight transpose. Only uninterpreted applications and named symbols
// can be wrapped; constants are transpose-invariant under the scalar
// approximation, so they report false and callers use the operand as-is.
func CanTranspose(e Expr) bool {
	switch e.(type) {
	case Call, Var:
		return true
	default:
		return false
	}
}

// Transpose2D wraps an expression in the uninterpreted 2-D transpose
// used for linear-layer weights. Callers check CanTranspose first.
func Transpose2D(x Expr) Expr {
	return UninterpretedCall("transpose2d", x)
}
