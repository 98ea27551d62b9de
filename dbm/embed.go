package dbm

// GlobalIndex maps a component-local clock index (0 is the shared zero
// clock, 1..n are the component's own clocks) to the index it occupies
// in a composed transition system's shared federation dimension.
func GlobalIndex(local, offset int) int {
	if local == 0 {
		return 0
	}
	return offset + local
}

// Embed lifts fed, expressed in a component's local dimension, into a
// federation of the larger shared dim used by a composed transition
// system. Local clock i (i>0) lands at GlobalIndex(i, offset); every
// entry outside the local block keeps the "no constraint yet" shape so
// composing with other components' embedded federations only tightens
// the rows/columns each actually owns.
func Embed(fed Federation, dim, offset int) Federation {
	out := make([]*DBM, len(fed.dbms))
	for k, a := range fed.dbms {
		d := newRawDBM(dim)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				if i == j {
					d.set(i, j, Zero)
				} else {
					d.set(i, j, Inf)
				}
			}
		}
		n := a.dim
		for i := 0; i < n; i++ {
			gi := GlobalIndex(i, offset)
			for j := 0; j < n; j++ {
				gj := GlobalIndex(j, offset)
				d.set(gi, gj, a.at(i, j))
			}
		}
		out[k] = d
	}
	return Federation{dim: dim, dbms: out}
}
