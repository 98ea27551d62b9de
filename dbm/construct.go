package dbm

// Universe returns the federation with no constraints beyond clocks
// being non-negative: a single DBM where every clock may take any
// non-negative value and differences are unconstrained.
func Universe(dim int) Federation {
	d := newRawDBM(dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			switch {
			case i == j:
				d.set(i, j, Zero)
			case i == 0:
				// x_0 - x_j <= 0  =>  x_j >= 0
				d.set(i, j, Zero)
			default:
				d.set(i, j, Inf)
			}
		}
	}
	return Federation{dim: dim, dbms: []*DBM{d}}
}

// Empty returns the federation with no conjuncts: the empty zone.
func Empty(dim int) Federation {
	return Federation{dim: dim, dbms: nil}
}

// Init returns the federation where every clock equals zero.
func Init(dim int) Federation {
	d := newRawDBM(dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			d.set(i, j, Zero)
		}
	}
	return Federation{dim: dim, dbms: []*DBM{d}}
}

// IsEmpty reports whether the federation has no satisfiable conjunct.
func (f Federation) IsEmpty() bool {
	return len(f.dbms) == 0
}
