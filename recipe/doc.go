// Package recipe implements the query surface: a hand-written
// recursive-descent parser for the sys_expr/state_expr grammar, Build,
// which checks every composition operator's precondition as it builds
// that operator's node (so a malformed query fails at the first
// offending operator), and
// the top-level Run dispatcher that turns a parsed Query into a call
// against package analysis.
//
// Parsing is hand-rolled recursive descent rather than built on a
// parser-generator or combinator library — see DESIGN.md.
package recipe
