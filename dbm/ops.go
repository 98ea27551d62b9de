package dbm

import "fmt"

// intersectDBM returns the closed conjunction of a and b, or nil if
// the result is inconsistent.
func intersectDBM(a, b *DBM) *DBM {
	n := a.dim
	r := newRawDBM(n)
	for idx := 0; idx < n*n; idx++ {
		r.bounds[idx] = minBound(a.bounds[idx], b.bounds[idx])
	}
	if !r.close() {
		return nil
	}
	return r
}

// Intersection returns the federation of points satisfying both f and
// g: the pairwise (cartesian) conjunction of their disjuncts.
func (f Federation) Intersection(g Federation) (Federation, error) {
	if f.dim != g.dim {
		return Federation{}, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, f.dim, g.dim)
	}
	out := make([]*DBM, 0, len(f.dbms)*len(g.dbms))
	for _, a := range f.dbms {
		for _, b := range g.dbms {
			if r := intersectDBM(a, b); r != nil {
				out = append(out, r)
			}
		}
	}
	return Federation{dim: f.dim, dbms: out}, nil
}

// Union returns the federation of points satisfying f or g. No
// minimization is performed; callers that need a compact
// representation should rely on subset covering rather than conjunct
// count.
func (f Federation) Union(g Federation) (Federation, error) {
	if f.dim != g.dim {
		return Federation{}, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, f.dim, g.dim)
	}
	out := make([]*DBM, 0, len(f.dbms)+len(g.dbms))
	out = append(out, f.dbms...)
	out = append(out, g.dbms...)
	return Federation{dim: f.dim, dbms: out}, nil
}

// subtractSingle returns the set of closed DBMs whose union equals
// a \ b (standard DBM-subtraction by facet enumeration of b).
func subtractSingle(a, b *DBM) []*DBM {
	n := a.dim
	var out []*DBM
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			bij := b.at(i, j)
			if bij.IsInf() {
				continue // negating "no constraint" yields false; contributes nothing
			}
			neg := negateBound(bij)
			frag := a.clone()
			cur := frag.at(j, i)
			tightened := minBound(cur, neg)
			if tightened == cur {
				// no change: the negated half-space doesn't cut into a here
				continue
			}
			frag.set(j, i, tightened)
			if frag.close() {
				out = append(out, frag)
			}
		}
	}
	return out
}

// Subtraction returns the federation of points in f but not in g.
func (f Federation) Subtraction(g Federation) (Federation, error) {
	if f.dim != g.dim {
		return Federation{}, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, f.dim, g.dim)
	}
	result := append([]*DBM(nil), f.dbms...)
	for _, b := range g.dbms {
		var next []*DBM
		for _, a := range result {
			next = append(next, subtractSingle(a, b)...)
		}
		result = next
		if len(result) == 0 {
			break
		}
	}
	return Federation{dim: f.dim, dbms: result}, nil
}

// Constrain intersects the federation with a single difference
// constraint x_i - x_j ⪯ bound.
func (f Federation) Constrain(i, j int, bound Bound) (Federation, error) {
	if err := checkIndex(f.dim, i); err != nil {
		return Federation{}, err
	}
	if err := checkIndex(f.dim, j); err != nil {
		return Federation{}, err
	}
	out := make([]*DBM, 0, len(f.dbms))
	for _, a := range f.dbms {
		c := a.clone()
		cur := c.at(i, j)
		c.set(i, j, minBound(cur, bound))
		if c.close() {
			out = append(out, c)
		}
	}
	return Federation{dim: f.dim, dbms: out}, nil
}

// ConstrainEq restricts clock i to the exact integer value v.
func (f Federation) ConstrainEq(i, v int) (Federation, error) {
	g, err := f.Constrain(i, 0, Bound{Value: v, Strict: false})
	if err != nil {
		return Federation{}, err
	}
	return g.Constrain(0, i, Bound{Value: -v, Strict: false})
}

// Assign resets clock i to the constant v (the compiled-update
// effect).
func (f Federation) Assign(i, v int) (Federation, error) {
	if err := checkIndex(f.dim, i); err != nil {
		return Federation{}, err
	}
	out := make([]*DBM, 0, len(f.dbms))
	for _, a := range f.dbms {
		c := a.clone()
		vBound := Bound{Value: v, Strict: false}
		negVBound := Bound{Value: -v, Strict: false}
		for j := 0; j < f.dim; j++ {
			if j == i {
				continue
			}
			c.set(i, j, addBound(vBound, a.at(0, j)))
			c.set(j, i, addBound(negVBound, a.at(j, 0)))
		}
		c.set(i, i, Zero)
		if c.close() {
			out = append(out, c)
		}
	}
	return Federation{dim: f.dim, dbms: out}, nil
}

// Up computes the forward time-elapse closure: every clock may grow
// without bound while differences between clocks are preserved.
func (f Federation) Up() Federation {
	out := make([]*DBM, len(f.dbms))
	for k, a := range f.dbms {
		c := a.clone()
		for i := 1; i < f.dim; i++ {
			c.set(i, 0, Inf)
		}
		out[k] = c
	}
	return Federation{dim: f.dim, dbms: out}
}

// Down computes the backward (past) dual of Up.
func (f Federation) Down() Federation {
	out := make([]*DBM, len(f.dbms))
	for k, a := range f.dbms {
		c := a.clone()
		for i := 1; i < f.dim; i++ {
			c.set(0, i, Zero)
		}
		out[k] = c
	}
	return Federation{dim: f.dim, dbms: out}
}

// ExtrapolateMaxBounds applies classical maximum-bound extrapolation:
// constraints whose positive bound exceeds the clock's observed
// maximum become unbounded, and constraints whose negated bound falls
// below the clock's negative maximum are clamped to it. bounds is
// indexed by clock index (0 unused/ignored).
func (f Federation) ExtrapolateMaxBounds(bounds []int) (Federation, error) {
	if len(bounds) < f.dim {
		return Federation{}, fmt.Errorf("dbm: bounds slice shorter than dimension")
	}
	out := make([]*DBM, 0, len(f.dbms))
	for _, a := range f.dbms {
		c := a.clone()
		for i := 0; i < f.dim; i++ {
			for j := 0; j < f.dim; j++ {
				if i == j {
					continue
				}
				b := c.at(i, j)
				if b.IsInf() {
					continue
				}
				if i != 0 && b.Value > bounds[i] {
					c.set(i, j, Inf)
					continue
				}
				if j != 0 && -b.Value > bounds[j] {
					c.set(i, j, Bound{Value: -bounds[j], Strict: false})
				}
			}
		}
		if c.close() {
			out = append(out, c)
		}
	}
	return Federation{dim: f.dim, dbms: out}, nil
}

// Free removes every constraint involving clock i, leaving it
// unconstrained (but still non-negative) while preserving all other
// relationships — the effect a reset's pre-image needs once the
// reset clock has been pinned and then "forgotten".
func (f Federation) Free(i int) Federation {
	out := make([]*DBM, 0, len(f.dbms))
	for _, a := range f.dbms {
		c := a.clone()
		for j := 0; j < f.dim; j++ {
			if j == i {
				continue
			}
			c.set(i, j, Inf)
			c.set(j, i, Inf)
		}
		c.set(0, i, Zero)
		c.set(i, i, Zero)
		if c.close() {
			out = append(out, c)
		}
	}
	return Federation{dim: f.dim, dbms: out}
}

// SubsetEq reports whether every point of f also satisfies g
// (f \ g is empty).
func (f Federation) SubsetEq(g Federation) (bool, error) {
	diff, err := f.Subtraction(g)
	if err != nil {
		return false, err
	}
	return diff.IsEmpty(), nil
}

// HasIntersection reports whether f and g share at least one point.
func (f Federation) HasIntersection(g Federation) (bool, error) {
	inter, err := f.Intersection(g)
	if err != nil {
		return false, err
	}
	return !inter.IsEmpty(), nil
}

// CanDelayIndefinitely reports whether some point in the federation can
// delay forever without leaving it, i.e. some disjunct places no upper
// bound on any clock.
func (f Federation) CanDelayIndefinitely() bool {
	for _, a := range f.dbms {
		unbounded := true
		for i := 1; i < f.dim; i++ {
			if !a.at(i, 0).IsInf() {
				unbounded = false
				break
			}
		}
		if unbounded {
			return true
		}
	}
	return false
}

// Constraint is one minimal difference constraint surfaced by
// MinimalConstraints, for flattening a federation back into a boolean
// expression (save-component / debugging).
type Constraint struct {
	I, J  int
	Bound Bound
}

// MinimalConstraints returns, per disjunct, the irredundant
// constraints: those not implied by chaining any other two bounds in
// the same closed DBM.
func (f Federation) MinimalConstraints() [][]Constraint {
	result := make([][]Constraint, len(f.dbms))
	for di, a := range f.dbms {
		var cs []Constraint
		for i := 0; i < f.dim; i++ {
			for j := 0; j < f.dim; j++ {
				if i == j {
					continue
				}
				b := a.at(i, j)
				if b.IsInf() {
					continue
				}
				redundant := false
				for k := 0; k < f.dim; k++ {
					if k == i || k == j {
						continue
					}
					via := addBound(a.at(i, k), a.at(k, j))
					if leqBound(via, b) && via == b {
						redundant = true
						break
					}
				}
				if !redundant {
					cs = append(cs, Constraint{I: i, J: j, Bound: b})
				}
			}
		}
		result[di] = cs
	}
	return result
}

// Bounds returns, per clock index (0 is the always-zero reference
// clock and is always 0), the largest finite upper bound x_i <= c
// appearing anywhere in f's disjuncts. Used to seed extrapolation with
// a goal federation's own constants so a tight goal zone
// is never widened away before it can be matched.
func (f Federation) Bounds() []int {
	out := make([]int, f.dim)
	for _, d := range f.dbms {
		for i := 1; i < f.dim; i++ {
			b := d.at(i, 0)
			if b.IsInf() {
				continue
			}
			if b.Value > out[i] {
				out[i] = b.Value
			}
		}
	}
	return out
}

// Equal reports whether f and g contain exactly the same canonical
// disjuncts (order-sensitive; callers doing set comparisons should
// normalize first). Used by covering checks that already operate on
// single disjuncts.
func (f Federation) Equal(g Federation) bool {
	if f.dim != g.dim || len(f.dbms) != len(g.dbms) {
		return false
	}
	for i := range f.dbms {
		if !f.dbms[i].equalCanonical(g.dbms[i]) {
			return false
		}
	}
	return true
}
