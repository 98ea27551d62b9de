package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/analysis"
	"github.com/katalvlaran/tazone/recipe"
)

func TestCompileGoalsReachesBusyReceiver(t *testing.T) {
	leaves := preparedLeaves(t)
	sysExpr, err := recipe.ParseSysExpr("Sender || Receiver")
	require.NoError(t, err)
	sys, err := recipe.Build(sysExpr, leaves)
	require.NoError(t, err)

	target, err := recipe.ParseStateExpr("Receiver.busy")
	require.NoError(t, err)
	goals, err := recipe.CompileGoals(target, sysExpr, leaves, sys.Dim())
	require.NoError(t, err)
	require.Len(t, goals, 1)

	_, path, err := analysis.CheckReachability(sys, goals[0].Pattern, nil, 0)
	require.NoError(t, err)
	require.Equal(t, analysis.Path{"go"}, path)
}

func TestCompileGoalsNegatedLocationExpandsAlternatives(t *testing.T) {
	leaves := preparedLeaves(t)
	sysExpr, err := recipe.ParseSysExpr("Sender || Receiver")
	require.NoError(t, err)

	target, err := recipe.ParseStateExpr("!(Receiver.idle)")
	require.NoError(t, err)
	goals, err := recipe.CompileGoals(target, sysExpr, leaves, 2)
	require.NoError(t, err)
	// Receiver declares exactly {idle, busy}; excluding idle leaves one
	// concrete alternative (busy).
	require.Len(t, goals, 1)
}

func TestCompileStartStatePinsLocationsAndZone(t *testing.T) {
	leaves := preparedLeaves(t)
	sysExpr, err := recipe.ParseSysExpr("Sender || Receiver")
	require.NoError(t, err)
	sys, err := recipe.Build(sysExpr, leaves)
	require.NoError(t, err)

	start, err := recipe.ParseStateExpr("Sender.idle && Receiver.busy && Receiver.y >= 2")
	require.NoError(t, err)
	state, err := recipe.CompileStartState(start, sysExpr, leaves, sys.Dim())
	require.NoError(t, err)
	require.False(t, state.Zone.IsEmpty())

	goal, err := recipe.CompileGoals(mustParseState(t, "Receiver.busy"), sysExpr, leaves, sys.Dim())
	require.NoError(t, err)
	require.True(t, goal[0].Pattern.Matches(state.Loc))
}

func mustParseState(t *testing.T, s string) recipe.StateExpr {
	t.Helper()
	e, err := recipe.ParseStateExpr(s)
	require.NoError(t, err)
	return e
}
