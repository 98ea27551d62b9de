package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/recipe"
	"github.com/katalvlaran/tazone/tsystem"
)

func preparedLeaves(t *testing.T) map[string]*tsystem.Leaf {
	t.Helper()
	leaves, err := tsystem.Prepare([]*component.Component{sender(), receiver()}, false)
	require.NoError(t, err)
	m, err := recipe.Leaves([]string{"Sender", "Receiver"}, leaves)
	require.NoError(t, err)
	return m
}

func TestBuildComposition(t *testing.T) {
	leaves := preparedLeaves(t)
	e, err := recipe.ParseSysExpr("Sender || Receiver")
	require.NoError(t, err)
	sys, err := recipe.Build(e, leaves)
	require.NoError(t, err)
	require.Contains(t, sys.OutputActions(), "go")
	require.Contains(t, sys.OutputActions(), "ack")
}

func TestBuildUnknownAtomFails(t *testing.T) {
	leaves := preparedLeaves(t)
	e, err := recipe.ParseSysExpr("Nope")
	require.NoError(t, err)
	_, err = recipe.Build(e, leaves)
	require.Error(t, err)
}

func TestBuildConjunctionRejectsMismatchedAlphabet(t *testing.T) {
	leaves := preparedLeaves(t)
	e, err := recipe.ParseSysExpr("Sender && Receiver")
	require.NoError(t, err)
	_, err = recipe.Build(e, leaves)
	require.Error(t, err, "Sender and Receiver do not share an alphabet")
}

func TestNewQuotientSymbolDeterministic(t *testing.T) {
	a := []string{"go", "ack"}
	b := []string{"go"}
	s1 := recipe.NewQuotientSymbol(a, b)
	s2 := recipe.NewQuotientSymbol(a, b)
	require.Equal(t, s1, s2)
}

func TestNewQuotientSymbolAvoidsCollision(t *testing.T) {
	sym := recipe.NewQuotientSymbol([]string{tsystem.NewInputSymbol})
	require.NotEqual(t, tsystem.NewInputSymbol, sym)
}
