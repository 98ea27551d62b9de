package component

import "github.com/katalvlaran/tazone/expr"

// BuildClockUsages scans every guard, invariant and update in the
// component and records, per clock name, the edges and location
// invariants that reference it. It must run before clock reduction;
// afterwards the map is conventionally left empty.
func (c *Component) BuildClockUsages() {
	usages := make(map[string]ClockUsage, c.Decl.ClockCount())
	ensure := func(name string) ClockUsage {
		u, ok := usages[name]
		if !ok {
			u = ClockUsage{}
		}
		return u
	}
	mark := func(name string) {
		if _, ok := c.Decl.ClockIndex(name); !ok {
			return
		}
		if _, ok := usages[name]; !ok {
			usages[name] = ClockUsage{}
		}
	}

	clockNamesIn := func(a expr.ArithExpr) []string {
		var names []string
		var walk func(expr.ArithExpr)
		walk = func(e expr.ArithExpr) {
			switch v := e.(type) {
			case expr.VarName:
				if _, ok := c.Decl.ClockIndex(string(v)); ok {
					names = append(names, string(v))
				}
			case *expr.BinOp:
				walk(v.Left)
				walk(v.Right)
			}
		}
		walk(a)
		return names
	}

	var walkBool func(expr.BoolExpr) []string
	walkBool = func(b expr.BoolExpr) []string {
		var names []string
		switch v := b.(type) {
		case *expr.And:
			names = append(names, walkBool(v.Left)...)
			names = append(names, walkBool(v.Right)...)
		case *expr.Or:
			names = append(names, walkBool(v.Left)...)
			names = append(names, walkBool(v.Right)...)
		case *expr.Cmp:
			names = append(names, clockNamesIn(v.Left)...)
			names = append(names, clockNamesIn(v.Right)...)
		}
		return names
	}

	for _, l := range c.Locations {
		if l.Invariant == nil {
			continue
		}
		for _, name := range walkBool(l.Invariant) {
			mark(name)
			u := ensure(name)
			u.LocationInvariants = append(u.LocationInvariants, l.ID)
			usages[name] = u
		}
	}
	for _, e := range c.Edges {
		if e.Guard != nil {
			for _, name := range walkBool(e.Guard) {
				mark(name)
				u := ensure(name)
				u.EdgesUsedIn = append(u.EdgesUsedIn, e.ID)
				usages[name] = u
			}
		}
		for _, up := range e.Updates {
			mark(up.Clock)
			u := ensure(up.Clock)
			u.EdgesAssignedIn = append(u.EdgesAssignedIn, e.ID)
			usages[up.Clock] = u
		}
	}
	c.ClockUsages = usages
}
