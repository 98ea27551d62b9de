package expr

// RenameArith substitutes every VarName present in rename with its
// mapped value, leaving everything else untouched. Used by clock
// reduction to collapse a merged group of clock names onto its
// representative.
func RenameArith(e ArithExpr, rename map[string]string) ArithExpr {
	switch v := e.(type) {
	case VarName:
		if nn, ok := rename[string(v)]; ok {
			return VarName(nn)
		}
		return v
	case *BinOp:
		return &BinOp{Op: v.Op, Left: RenameArith(v.Left, rename), Right: RenameArith(v.Right, rename)}
	default:
		return e
	}
}

// RenameBool substitutes every VarName in a boolean expression tree.
func RenameBool(e BoolExpr, rename map[string]string) BoolExpr {
	switch v := e.(type) {
	case *And:
		return &And{Left: RenameBool(v.Left, rename), Right: RenameBool(v.Right, rename)}
	case *Or:
		return &Or{Left: RenameBool(v.Left, rename), Right: RenameBool(v.Right, rename)}
	case *Cmp:
		return &Cmp{Op: v.Op, Left: RenameArith(v.Left, rename), Right: RenameArith(v.Right, rename)}
	default:
		return e
	}
}

// ClocksIn returns the set of clock names referenced by an arithmetic
// expression, given a resolver to distinguish clocks from integer
// variables.
func ClocksIn(e ArithExpr, r Resolver) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(ArithExpr)
	walk = func(a ArithExpr) {
		switch v := a.(type) {
		case VarName:
			if _, ok := r.ClockIndex(string(v)); ok {
				out[string(v)] = struct{}{}
			}
		case *BinOp:
			walk(v.Left)
			walk(v.Right)
		}
	}
	walk(e)
	return out
}
