package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/recipe"
)

func TestParseSysExprPrecedenceAndAssociativity(t *testing.T) {
	e, err := recipe.ParseSysExpr("A && B || C \\\\ D && E")
	require.NoError(t, err)

	// \\ binds loosest: the whole thing is Quot(Par(Conj(A,B), C), Conj(D,E)).
	quot, ok := e.(*recipe.Quot)
	require.True(t, ok, "top node must be a Quot")

	par, ok := quot.L.(*recipe.Par)
	require.True(t, ok, "left of \\\\ must be a Par")

	conjL, ok := par.L.(*recipe.Conj)
	require.True(t, ok)
	require.Equal(t, recipe.Atom{Name: "A"}, conjL.L)
	require.Equal(t, recipe.Atom{Name: "B"}, conjL.R)
	require.Equal(t, recipe.Atom{Name: "C"}, par.R)

	conjR, ok := quot.R.(*recipe.Conj)
	require.True(t, ok)
	require.Equal(t, recipe.Atom{Name: "D"}, conjR.L)
	require.Equal(t, recipe.Atom{Name: "E"}, conjR.R)
}

func TestParseSysExprParensAndTags(t *testing.T) {
	e, err := recipe.ParseSysExpr("(A[1] && B)")
	require.NoError(t, err)
	conj, ok := e.(*recipe.Conj)
	require.True(t, ok)
	require.Equal(t, "A[1]", conj.L.(recipe.Atom).Key())
	require.Equal(t, "B", conj.R.(recipe.Atom).Key())
}

func TestParseSysExprRejectsTrailingGarbage(t *testing.T) {
	_, err := recipe.ParseSysExpr("A &&")
	require.Error(t, err)

	_, err = recipe.ParseSysExpr("A B")
	require.Error(t, err)
}
