package placement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/modules/placement"
)

func TestNew_RejectsUnknownNeighborhood(t *testing.T) {
	_, err := placement.New("g", placement.Input{Pop: "main", Neighborhood: "grid"})
	require.Error(t, err)
	_, err = placement.New("g", placement.Input{Neighborhood: "ring"})
	require.Error(t, err)
}

func TestGrowth_RingBirthsLandNextToParent(t *testing.T) {
	g, err := placement.New("grow", placement.Input{Pop: "main", Neighborhood: "ring"})
	require.NoError(t, err)
	c := testutil.NewController(t, map[string]int{"main": 10}, g)
	require.NoError(t, c.Setup())

	pop, _ := c.Population("main")
	parent := pop.Position(0)
	c.InjectAt(testutil.NewTagOrg(1, nil), parent)

	for i := 0; i < 20; i++ {
		placed := c.Replicate(parent, pop, 1, false)
		require.Equal(t, 1, placed.Len())
		idx := placed.At(0).Index()
		require.Contains(t, []int{1, 9}, idx)
	}
	require.True(t, parent.IsOccupied(), "the parent is never its own neighbor")
	require.LessOrEqual(t, pop.NumOrgs(), 3)
}

func TestGrowth_ForeignParentPlacesRandomly(t *testing.T) {
	g, err := placement.New("grow", placement.Input{Pop: "main", Neighborhood: "random"})
	require.NoError(t, err)
	c := testutil.NewController(t, map[string]int{"main": 3, "src": 1}, g)
	require.NoError(t, c.Setup())

	main, _ := c.Population("main")
	src, _ := c.Population("src")
	c.InjectAt(testutil.NewTagOrg(1, nil), src.Position(0))

	placed := c.Replicate(src.Position(0), main, 5, false)
	require.NotZero(t, placed.Len())
	require.LessOrEqual(t, placed.Len(), 3, "positions are collected once")
	require.Equal(t, placed.NumOrgs(), main.NumOrgs())
}
