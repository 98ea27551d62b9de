package ltree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/ltree"
)

func TestComposeJoinsTypeTags(t *testing.T) {
	u := dbm.Universe(2)
	tests := []struct {
		name string
		l, r component.LocationType
		want component.LocationType
	}{
		{"both initial", component.Initial, component.Initial, component.Initial},
		{"initial and normal", component.Initial, component.Normal, component.Normal},
		{"inconsistent dominates", component.Inconsistent, component.Universal, component.Inconsistent},
		{"universal dominates normal", component.Universal, component.Normal, component.Universal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := ltree.Simple(0, "a", u, tc.l)
			r := ltree.Simple(1, "b", u, tc.r)
			node, err := ltree.Compose(l, r, ltree.KindConjunction)
			require.NoError(t, err)
			assert.Equal(t, tc.want, node.Type)
		})
	}
}

func TestComposeIntersectsInvariants(t *testing.T) {
	lo, err := dbm.Universe(2).Constrain(1, 0, dbm.Bound{Value: 10, Strict: false})
	require.NoError(t, err)
	hi, err := dbm.Universe(2).Constrain(1, 0, dbm.Bound{Value: 5, Strict: false})
	require.NoError(t, err)

	l := ltree.Simple(0, "a", lo, component.Initial)
	r := ltree.Simple(1, "b", hi, component.Initial)
	node, err := ltree.Compose(l, r, ltree.KindComposition)
	require.NoError(t, err)

	// x<=10 ∩ x<=5 is x<=5.
	assert.True(t, node.Invariant.Equal(hi))
}

func TestKeyIsStructural(t *testing.T) {
	u := dbm.Universe(2)
	a1 := ltree.Simple(0, "L0", u, component.Initial)
	a2 := ltree.Simple(0, "L0", u, component.Initial)
	b := ltree.Simple(1, "L0", u, component.Initial)

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(b), "same location id under a different leaf is a different tree")

	n1, err := ltree.Compose(a1, b, ltree.KindConjunction)
	require.NoError(t, err)
	n2, err := ltree.Compose(a2, b, ltree.KindConjunction)
	require.NoError(t, err)
	assert.Equal(t, n1.Key(), n2.Key())

	n3, err := ltree.Compose(a1, b, ltree.KindComposition)
	require.NoError(t, err)
	assert.NotEqual(t, n1.Key(), n3.Key(), "operator kind is part of the identity")
}

func TestMatchesWithWildcard(t *testing.T) {
	u := dbm.Universe(2)
	la := ltree.Simple(0, "L0", u, component.Initial)
	lb := ltree.Simple(1, "L1", u, component.Normal)
	state, err := ltree.Compose(la, lb, ltree.KindComposition)
	require.NoError(t, err)

	// Pattern pins only the right child.
	pat := &ltree.Tree{
		Kind:  ltree.KindComposition,
		Left:  ltree.AnyNode(),
		Right: ltree.Simple(1, "L1", u, component.Normal),
	}
	assert.True(t, pat.Matches(state))

	wrong := &ltree.Tree{
		Kind:  ltree.KindComposition,
		Left:  ltree.AnyNode(),
		Right: ltree.Simple(1, "L2", u, component.Normal),
	}
	assert.False(t, wrong.Matches(state))

	assert.True(t, ltree.AnyNode().Matches(state))
}

func TestSpecialNodesMatchOnKind(t *testing.T) {
	u := dbm.Universe(2)
	univ := ltree.Special(ltree.KindUniversal, u)
	errn := ltree.Special(ltree.KindError, u)

	assert.True(t, univ.Matches(ltree.Special(ltree.KindUniversal, u)))
	assert.False(t, univ.Matches(errn))
	assert.Equal(t, "U", univ.Key())
	assert.Equal(t, "E", errn.Key())
}
