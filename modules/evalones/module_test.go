package evalones_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/modules/bitsorg"
	"github.com/vk/evogrid/modules/evalones"
)

func TestEvaluator_ScoresOnPlacement(t *testing.T) {
	bits, err := bitsorg.New("bits", bitsorg.Input{Length: 12, MutProb: 0.1, InitRandom: true, Trait: "bits"})
	require.NoError(t, err)
	eval, err := evalones.New("ones", evalones.Input{Bits: "bits", Fitness: "ones"})
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 5}, bits, eval)
	require.NoError(t, c.Setup())

	pop, _ := c.Population("main")
	placed := c.InjectByName(pop, "bits", 5)
	require.Equal(t, 5, placed.Len())

	for _, pos := range placed.Positions() {
		org := pos.Org().(*bitsorg.Org)
		v, err := org.Traits().Lookup("ones")
		require.NoError(t, err)
		require.True(t, v.RawEquals(cty.NumberFloatVal(float64(org.Ones()))), "%s scored %s", org, v.GoString())
	}
}

func TestEvaluator_RequiresBitsProducer(t *testing.T) {
	eval, err := evalones.New("ones", evalones.Input{Bits: "bits", Fitness: "ones"})
	require.NoError(t, err)
	c := testutil.NewController(t, nil, eval)
	require.Error(t, c.Setup())
}
