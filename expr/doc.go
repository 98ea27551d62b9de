// Package expr implements the arithmetic and boolean constraint trees
// used by component guards, invariants and updates, and their
// compilation against a set of declarations into native federation
// operations.
//
// Arithmetic expressions are Int | VarName | Clock | BinOp(+,-,*,/,%).
// Boolean expressions are And | Or | Cmp(<,<=,=,>=,>) | Lit(bool).
// Compilation resolves every VarName to either a clock index or an
// integer constant, folds constant sub-trees, and rejects any
// comparison that is not native to the DBM representation — a single
// clock or a difference of two clocks against an integer bound.
// Multiplying or dividing a clock by a non-constant is a compile-time
// error, never a panic.
package expr
