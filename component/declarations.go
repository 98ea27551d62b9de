package component

// Declarations maps clock names to disjoint indices and integer
// variable names to their declared values. It implements
// expr.Resolver so guards/invariants/updates can compile directly
// against it.
type Declarations struct {
	clockNames []string       // declaration order, for deterministic re-indexing
	clockIndex map[string]int // name -> index (local, before any global offset)
	ints       map[string]int
}

// NewDeclarations builds a Declarations from ordered clock names and a
// map of integer variable values. Clock indices are assigned
// 1..len(clockNames) in the given order; index 0 is reserved for the
// implicit zero clock.
func NewDeclarations(clockNames []string, ints map[string]int) *Declarations {
	d := &Declarations{
		clockNames: append([]string(nil), clockNames...),
		clockIndex: make(map[string]int, len(clockNames)),
		ints:       make(map[string]int, len(ints)),
	}
	for i, n := range clockNames {
		d.clockIndex[n] = i + 1
	}
	for k, v := range ints {
		d.ints[k] = v
	}
	return d
}

// ClockIndex implements expr.Resolver.
func (d *Declarations) ClockIndex(name string) (int, bool) {
	i, ok := d.clockIndex[name]
	return i, ok
}

// IntValue implements expr.Resolver.
func (d *Declarations) IntValue(name string) (int, bool) {
	v, ok := d.ints[name]
	return v, ok
}

// Ints returns a copy of the declared integer-variable values.
func (d *Declarations) Ints() map[string]int {
	out := make(map[string]int, len(d.ints))
	for k, v := range d.ints {
		out[k] = v
	}
	return out
}

// ClockCount returns the number of distinct clock indices this
// declaration occupies.
func (d *Declarations) ClockCount() int { return len(d.clockIndex) }

// ClockNames returns the clocks in declaration order.
func (d *Declarations) ClockNames() []string {
	return append([]string(nil), d.clockNames...)
}

// NameOf returns the clock name for a given local index, or "" if the
// index is 0 or unassigned.
func (d *Declarations) NameOf(index int) string {
	for name, idx := range d.clockIndex {
		if idx == index {
			return name
		}
	}
	return ""
}

// WithOffset returns a new Declarations whose clock indices are all
// shifted by offset — how a leaf component's local indices become the
// global indices a composed transition system's federations use.
func (d *Declarations) WithOffset(offset int) *Declarations {
	nd := &Declarations{
		clockNames: append([]string(nil), d.clockNames...),
		clockIndex: make(map[string]int, len(d.clockIndex)),
		ints:       d.ints,
	}
	for name, idx := range d.clockIndex {
		nd.clockIndex[name] = idx + offset
	}
	return nd
}

// Compress renumbers the surviving clocks (after reduction removes
// some) into a dense 1..k range, preserving the relative order of
// clockNames. It returns the compressed Declarations and a map from
// old index to new index (0 maps to 0).
func (d *Declarations) Compress() (*Declarations, map[int]int) {
	remap := map[int]int{0: 0}
	nd := &Declarations{
		clockIndex: make(map[string]int, len(d.clockNames)),
		ints:       d.ints,
	}
	next := 1
	for _, name := range d.clockNames {
		old, ok := d.clockIndex[name]
		if !ok {
			continue // removed by reduction
		}
		nd.clockNames = append(nd.clockNames, name)
		nd.clockIndex[name] = next
		remap[old] = next
		next++
	}
	return nd, remap
}
