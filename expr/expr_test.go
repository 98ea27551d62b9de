package expr_test

import (
	"testing"

	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves "x","y" to clock indices 1,2 and "k" to 7.
type fakeResolver struct{}

func (fakeResolver) ClockIndex(name string) (int, bool) {
	switch name {
	case "x":
		return 1, true
	case "y":
		return 2, true
	}
	return 0, false
}

func (fakeResolver) IntValue(name string) (int, bool) {
	if name == "k" {
		return 7, true
	}
	return 0, false
}

// TestCompileSingleClockGuard covers "x <= 5".
func TestCompileSingleClockGuard(t *testing.T) {
	c := &expr.Cmp{Op: expr.CmpLe, Left: expr.VarName("x"), Right: expr.IntLit(5)}
	g, err := expr.CompileBool(c, fakeResolver{})
	require.NoError(t, err)
	require.Len(t, g.Clauses, 1)
	require.Len(t, g.Clauses[0], 1)
	assert.Equal(t, 1, g.Clauses[0][0].I)
	assert.Equal(t, 0, g.Clauses[0][0].J)
	assert.Equal(t, 5, g.Clauses[0][0].Bound.Value)
	assert.False(t, g.Clauses[0][0].Bound.Strict)
}

// TestCompileDifferenceGuard covers "x - y < k".
func TestCompileDifferenceGuard(t *testing.T) {
	c := &expr.Cmp{
		Op:   expr.CmpLt,
		Left: &expr.BinOp{Op: expr.OpSub, Left: expr.VarName("x"), Right: expr.VarName("y")},
		Right: expr.VarName("k"),
	}
	g, err := expr.CompileBool(c, fakeResolver{})
	require.NoError(t, err)
	require.Len(t, g.Clauses, 1)
	require.Len(t, g.Clauses[0], 1)
	assert.Equal(t, 1, g.Clauses[0][0].I)
	assert.Equal(t, 2, g.Clauses[0][0].J)
	assert.Equal(t, 7, g.Clauses[0][0].Bound.Value)
	assert.True(t, g.Clauses[0][0].Bound.Strict)
}

// TestRejectClockMultiplication ensures "x * y" is a compile error.
func TestRejectClockMultiplication(t *testing.T) {
	c := &expr.Cmp{
		Op:   expr.CmpLe,
		Left: &expr.BinOp{Op: expr.OpMul, Left: expr.VarName("x"), Right: expr.VarName("y")},
		Right: expr.IntLit(1),
	}
	_, err := expr.CompileBool(c, fakeResolver{})
	require.Error(t, err)
}

// TestCompileUpdateConstant covers "x := k + 1".
func TestCompileUpdateConstant(t *testing.T) {
	rhs := &expr.BinOp{Op: expr.OpAdd, Left: expr.VarName("k"), Right: expr.IntLit(1)}
	u, err := expr.CompileUpdate(1, rhs, fakeResolver{})
	require.NoError(t, err)
	assert.Equal(t, 8, u.Value)
}

// TestRejectNonConstantUpdate ensures "x := y" (a clock on the RHS) is
// rejected.
func TestRejectNonConstantUpdate(t *testing.T) {
	_, err := expr.CompileUpdate(1, expr.VarName("y"), fakeResolver{})
	require.Error(t, err)
}

// TestGuardApplyRestrictsFederation checks the compiled guard actually
// cuts down a federation.
func TestGuardApplyRestrictsFederation(t *testing.T) {
	c := &expr.Cmp{Op: expr.CmpLe, Left: expr.VarName("x"), Right: expr.IntLit(5)}
	g, err := expr.CompileBool(c, fakeResolver{})
	require.NoError(t, err)
	fed, err := g.Apply(dbm.Universe(3))
	require.NoError(t, err)
	assert.False(t, fed.IsEmpty())
}
