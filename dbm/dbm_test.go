package dbm_test

import (
	"testing"

	"github.com/katalvlaran/tazone/dbm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUniverseInit checks the two base federations are well formed and
// distinct.
func TestUniverseInit(t *testing.T) {
	u := dbm.Universe(3)
	i := dbm.Init(3)
	assert.False(t, u.IsEmpty())
	assert.False(t, i.IsEmpty())
	assert.False(t, u.Equal(i))
}

// TestConstrainAndAssign exercises the guard/update pair: constrain a
// clock then reset it.
func TestConstrainAndAssign(t *testing.T) {
	u := dbm.Universe(2) // clocks: x0 (zero), x1
	g, err := u.Constrain(1, 0, dbm.Bound{Value: 5, Strict: false})
	require.NoError(t, err)
	assert.False(t, g.IsEmpty())

	reset, err := g.Assign(1, 0)
	require.NoError(t, err)
	assert.False(t, reset.IsEmpty())

	// After resetting x1 to 0 the zone should equal Init.
	assert.True(t, reset.Equal(dbm.Init(2)))
}

// TestUpDownLaw verifies fed.Up().Down() ⊇ fed.
func TestUpDownLaw(t *testing.T) {
	u := dbm.Init(2)
	up := u.Up()
	down := up.Down()
	sub, err := u.SubsetEq(down)
	require.NoError(t, err)
	assert.True(t, sub)
}

// TestIntersectionWithUniverseIsIdentity verifies fed ∩ universe = fed.
func TestIntersectionWithUniverseIsIdentity(t *testing.T) {
	g, err := dbm.Init(2).Constrain(1, 0, dbm.Bound{Value: 3, Strict: false})
	require.NoError(t, err)
	inter, err := g.Intersection(dbm.Universe(2))
	require.NoError(t, err)
	assert.True(t, g.Equal(inter))
}

// TestSubtractionEmptiesSelf verifies fed \ fed is empty.
func TestSubtractionEmptiesSelf(t *testing.T) {
	g := dbm.Universe(3)
	diff, err := g.Subtraction(g)
	require.NoError(t, err)
	assert.True(t, diff.IsEmpty())
}

// TestExtrapolateIdempotent verifies repeated extrapolation with the
// same bounds is a no-op.
func TestExtrapolateIdempotent(t *testing.T) {
	g, err := dbm.Universe(2).Constrain(1, 0, dbm.Bound{Value: 100, Strict: false})
	require.NoError(t, err)
	bounds := []int{0, 5}
	once, err := g.ExtrapolateMaxBounds(bounds)
	require.NoError(t, err)
	twice, err := once.ExtrapolateMaxBounds(bounds)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
}

// TestCanDelayIndefinitely checks the unconstrained universe can delay
// forever but a bounded zone cannot.
func TestCanDelayIndefinitely(t *testing.T) {
	assert.True(t, dbm.Universe(2).CanDelayIndefinitely())
	bounded, err := dbm.Universe(2).Constrain(1, 0, dbm.Bound{Value: 2, Strict: false})
	require.NoError(t, err)
	assert.False(t, bounded.CanDelayIndefinitely())
}
