package dbm_test

import (
	"testing"

	"github.com/katalvlaran/tazone/dbm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedPreservesLocalConstraint(t *testing.T) {
	local := dbm.Universe(2) // x0 (zero), x1
	local, err := local.Constrain(1, 0, dbm.Bound{Value: 5, Strict: false})
	require.NoError(t, err)

	global := dbm.Embed(local, 4, 1) // local clock 1 lands at global index 2
	ok, err := global.HasIntersection(dbm.Universe(4))
	require.NoError(t, err)
	assert.True(t, ok)

	// the embedded constraint should restrict global clock 2, not clock 1 or 3.
	shifted, err := global.Constrain(2, 0, dbm.Bound{Value: 10, Strict: false})
	require.NoError(t, err)
	assert.False(t, shifted.IsEmpty())

	// x2 >= 6 contradicts the embedded x2 <= 5.
	tooTight, err := global.Constrain(0, 2, dbm.Bound{Value: -6, Strict: false})
	require.NoError(t, err)
	assert.True(t, tooTight.IsEmpty(), "global clock 2 inherited the local x1<=5 bound")
}
