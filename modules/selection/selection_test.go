package selection_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/internal/trait"
	"github.com/vk/evogrid/modules/selection"
)

func scored(fitness ...float64) []selection.Scored {
	out := make([]selection.Scored, len(fitness))
	for i, f := range fitness {
		out[i] = selection.Scored{Fitness: f}
	}
	return out
}

func TestRank_DescendingStable(t *testing.T) {
	s := scored(1, 5, 3, 5)
	selection.Rank(s)
	require.Equal(t, []float64{5, 5, 3, 1}, []float64{s[0].Fitness, s[1].Fitness, s[2].Fitness, s[3].Fitness})
}

func TestEliteSelector(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ranked := scored(9, 8, 1, 0)
	for i := 0; i < 50; i++ {
		got, err := selection.EliteSelector{Count: 2}.PickParent(rng, ranked)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Fitness, 8.0)
	}
	_, err := selection.EliteSelector{Count: 0}.PickParent(rng, ranked)
	require.Error(t, err)
	_, err = selection.EliteSelector{Count: 1}.PickParent(nil, ranked)
	require.Error(t, err)
	_, err = selection.EliteSelector{Count: 1}.PickParent(rng, nil)
	require.Error(t, err)
}

func TestTournamentSelector_PrefersFitter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ranked := scored(10, 1, 1, 1, 1, 1, 1, 1)
	wins := 0
	for i := 0; i < 200; i++ {
		got, err := selection.TournamentSelector{Size: 4}.PickParent(rng, ranked)
		require.NoError(t, err)
		if got.Fitness == 10 {
			wins++
		}
	}
	require.Greater(t, wins, 200/8, "a size-4 tournament picks the best more often than chance")
}

func TestSelection_ReplacesGeneration(t *testing.T) {
	seed := testutil.NewTraitOwner("seed", "fitness")
	seed.Init = trait.InitFirst
	sel, err := selection.New("select", "EliteSelect", selection.Input{Pop: "main", Fitness: "fitness", Count: 1}, selection.EliteSelector{Count: 1})
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 4}, seed, sel)
	require.NoError(t, c.Setup())

	pop, _ := c.Population("main")
	for i := 0; i < 4; i++ {
		c.InjectAt(seed.Org(i, float64(i)), pop.Position(i))
	}

	c.Update(1)
	require.Equal(t, 4, pop.Size())
	require.Equal(t, 4, pop.NumOrgs())
	for _, pos := range pop.Positions() {
		f, err := pos.Org().Traits().Float(0)
		require.NoError(t, err)
		require.Equal(t, 3.0, f, "every child descends from the best parent")
		require.Equal(t, "tag4", pos.Org().String(), "children are mutated clones of tag3")
	}

	next, ok := c.Population("select_next")
	require.True(t, ok)
	require.Equal(t, 0, next.Size())
	require.Zero(t, c.Notes().NumErrors())
}

func TestSelection_UnknownPopulation(t *testing.T) {
	sel, err := selection.New("select", "EliteSelect", selection.Input{Pop: "nope", Fitness: "fitness", Count: 1}, selection.EliteSelector{Count: 1})
	require.NoError(t, err)
	c := testutil.NewController(t, nil, sel)
	require.Error(t, c.Setup())
}
