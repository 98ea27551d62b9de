package component

// Clone returns a deep copy of c: every slice is copied so a caller
// that mutates the clone (e.g. clockreduce.Reduce, which rewrites
// Decl and edges in place) never touches the original. Expression
// trees are shared; the guard/invariant/update graph is itself never
// mutated in place anywhere in this module.
func (c *Component) Clone() *Component {
	nc := &Component{
		Name: c.Name,
		Decl: c.Decl.clone(),
	}
	nc.Locations = append([]Location(nil), c.Locations...)
	nc.Edges = make([]Edge, len(c.Edges))
	for i, e := range c.Edges {
		ne := e
		ne.Updates = append([]RawUpdate(nil), e.Updates...)
		nc.Edges[i] = ne
	}
	if c.ClockUsages != nil {
		nc.ClockUsages = make(map[string]ClockUsage, len(c.ClockUsages))
		for k, v := range c.ClockUsages {
			nv := v
			nv.EdgesUsedIn = append([]string(nil), v.EdgesUsedIn...)
			nv.LocationInvariants = append([]string(nil), v.LocationInvariants...)
			nv.EdgesAssignedIn = append([]string(nil), v.EdgesAssignedIn...)
			nc.ClockUsages[k] = nv
		}
	}
	return nc
}

// clone returns a deep copy of d.
func (d *Declarations) clone() *Declarations {
	nd := &Declarations{
		clockNames: append([]string(nil), d.clockNames...),
		clockIndex: make(map[string]int, len(d.clockIndex)),
		ints:       make(map[string]int, len(d.ints)),
	}
	for k, v := range d.clockIndex {
		nd.clockIndex[k] = v
	}
	for k, v := range d.ints {
		nd.ints[k] = v
	}
	return nd
}
