// Package analysis implements the four checks every transition system
// built in package tsystem can be put through: determinism, local
// consistency, refinement and reachability, together with the error
// taxonomy each one surfaces when it fails.
package analysis
