// Package tsystem implements the transition-system layer: the common
// System interface every compiled component and composed system
// satisfies, the leaf wrapper around a component.CompiledComponent,
// and the three composition operators — conjunction, parallel
// composition, and quotient — that build new systems out of existing
// ones over a shared global clock dimension.
//
// Every System also carries the component-preparation pipeline a leaf
// runs once before it can serve transitions: clock reduction, dense
// re-compression, compilation, input-enabling, and stable edge-id
// assignment, in that fixed order.
package tsystem
