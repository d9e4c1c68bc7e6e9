// Package solver is the backing decision engine for semantic expression
// comparison. It decides satisfiability for the fragment the encoder
// actually produces: (dis)equalities between terms built from rational
// constants, free variables, and uninterpreted applications, combined
// with +, -, *, and constant division.
//
// The procedure normalizes both sides into an exact linear combination
// over atoms (variables, uninterpreted applications, and irreducible
// nonlinear products), with big.Rat coefficients. Two terms are
// equivalent iff their normal forms coincide; a disequality between
// terms with distinct normal forms is satisfiable because the atoms are
// mutually independent. Goals outside this fragment report Unknown.
//
// A Context is a scoped resource: acquired for the duration of a check
// and not retained across encoding passes.
package solver
