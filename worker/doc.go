// Package worker runs a batch of independent analysis jobs (typically
// one per system-recipe a user submitted for checking) across a bounded
// number of goroutines, collecting a Result per job instead of
// failing the whole batch on the first error or panic.
package worker
