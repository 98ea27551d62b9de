package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/recipe"
)

func TestParseStateExprLocationAndClockPredicates(t *testing.T) {
	e, err := recipe.ParseStateExpr("Machine.L5 && Machine.y < 3")
	require.NoError(t, err)

	and, ok := e.(*recipe.SAnd)
	require.True(t, ok)
	require.Equal(t, recipe.LocationPred{Component: "Machine", Location: "L5"}, and.L)

	cp, ok := and.R.(recipe.ClockPred)
	require.True(t, ok)
	require.Equal(t, "Machine", cp.Component)
	require.Equal(t, "y", cp.Clock)
	require.Equal(t, expr.CmpLt, cp.Op)
	require.Equal(t, expr.IntLit(3), cp.RHS)
}

func TestParseStateExprArithmetic(t *testing.T) {
	e, err := recipe.ParseStateExpr("A.x >= 2 + 3 * 4")
	require.NoError(t, err)
	cp, ok := e.(recipe.ClockPred)
	require.True(t, ok)
	require.Equal(t, expr.CmpGe, cp.Op)

	bin, ok := cp.RHS.(*expr.BinOp)
	require.True(t, ok)
	require.Equal(t, expr.OpAdd, bin.Op)
	require.Equal(t, expr.IntLit(2), bin.Left)
	mul, ok := bin.Right.(*expr.BinOp)
	require.True(t, ok)
	require.Equal(t, expr.OpMul, mul.Op)
}

func TestParseStateExprNegationAndBooleanLiterals(t *testing.T) {
	e, err := recipe.ParseStateExpr("!(A.idle) || true && false")
	require.NoError(t, err)
	or, ok := e.(*recipe.SOr)
	require.True(t, ok)
	not, ok := or.L.(*recipe.SNot)
	require.True(t, ok)
	require.Equal(t, recipe.LocationPred{Component: "A", Location: "idle"}, not.E)

	and, ok := or.R.(*recipe.SAnd)
	require.True(t, ok)
	require.Equal(t, recipe.SBoolLit(true), and.L)
	require.Equal(t, recipe.SBoolLit(false), and.R)
}
