package population_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/testutil"
)

func TestPopulation_InstallTracksCount(t *testing.T) {
	empty := organism.NewEmpty()
	pop := population.New("main", 0, 3, empty)
	require.Equal(t, 3, pop.Size())
	require.Zero(t, pop.NumOrgs())

	prev := pop.Install(1, testutil.NewTagOrg(1, nil))
	require.True(t, prev.IsEmpty())
	require.Equal(t, 1, pop.NumOrgs())

	prev = pop.Install(1, testutil.NewTagOrg(2, nil))
	require.Equal(t, "tag1", prev.String())
	require.Equal(t, 1, pop.NumOrgs())

	prev = pop.Remove(1)
	require.Equal(t, "tag2", prev.String())
	require.Zero(t, pop.NumOrgs())
	require.True(t, pop.OK())
}

func TestPopulation_FirstEmpty(t *testing.T) {
	pop := population.New("p", 0, 2, organism.NewEmpty())
	require.Equal(t, 0, pop.FirstEmpty().Index())
	pop.Install(0, testutil.NewTagOrg(1, nil))
	require.Equal(t, 1, pop.FirstEmpty().Index())
	pop.Install(1, testutil.NewTagOrg(2, nil))
	require.False(t, pop.FirstEmpty().IsValid())
}

func TestPopulation_Resize(t *testing.T) {
	pop := population.New("p", 0, 2, organism.NewEmpty())
	pop.Install(1, testutil.NewTagOrg(1, nil))

	require.NoError(t, pop.Resize(5))
	require.Equal(t, 5, pop.Size())
	require.True(t, pop.IsEmpty(4))

	require.Error(t, pop.Resize(1), "shrinking over an occupied slot must fail")
	require.Equal(t, 5, pop.Size())

	require.NoError(t, pop.Resize(2))
	require.Equal(t, 2, pop.Size())
	require.Equal(t, 1, pop.NumOrgs())
	require.Error(t, pop.Resize(-1))
}

func TestSwap_AcrossPopulations(t *testing.T) {
	empty := organism.NewEmpty()
	a := population.New("a", 0, 1, empty)
	b := population.New("b", 1, 1, empty)
	a.Install(0, testutil.NewTagOrg(7, nil))

	population.Swap(a, 0, b, 0)
	require.Zero(t, a.NumOrgs())
	require.Equal(t, 1, b.NumOrgs())
	require.Equal(t, "tag7", b.At(0).String())
	require.True(t, a.OK())
	require.True(t, b.OK())
}

func TestPosition(t *testing.T) {
	pop := population.New("main", 3, 2, organism.NewEmpty())
	pop.Install(0, testutil.NewTagOrg(1, nil))

	pos := pop.Position(0)
	require.True(t, pos.IsValid())
	require.True(t, pos.IsOccupied())
	require.Equal(t, 3, pos.PopID())
	require.Equal(t, "main[0]", pos.String())

	require.True(t, pop.Position(1).IsEmpty())
	require.False(t, pop.Position(2).IsValid())
	require.Nil(t, pop.Position(2).Org())

	var none population.Position
	require.False(t, none.IsValid())
	require.Equal(t, -1, none.PopID())
	require.Equal(t, pos, population.At(pop, 0))
}

func TestCollection(t *testing.T) {
	empty := organism.NewEmpty()
	a := population.New("a", 0, 3, empty)
	b := population.New("b", 1, 2, empty)
	a.Install(0, testutil.NewTagOrg(1, nil))
	a.Install(2, testutil.NewTagOrg(2, nil))
	b.Install(1, testutil.NewTagOrg(3, nil))

	c := population.FromPopulation(a)
	c.Insert(b.Position(1))
	c.Insert(a.Position(0))
	c.Insert(b.Position(9))
	require.Equal(t, 4, c.Len())
	require.Equal(t, 3, c.NumOrgs())
	require.Equal(t, "a,b[1]", c.String())

	c.RemoveEmpty()
	require.Equal(t, 3, c.Len())
	require.False(t, c.Has(a.Position(1)))
	require.Equal(t, "a[0,2],b[1]", c.String())

	var names []string
	for _, org := range c.Orgs() {
		names = append(names, org.String())
	}
	require.Equal(t, []string{"tag1", "tag2", "tag3"}, names)

	var d population.Collection
	d.InsertCollection(c)
	d.InsertPop(b)
	require.Equal(t, 4, d.Len())
	require.Len(t, d.Populations(), 2)
}

func TestCollection_CopiesAreIndependent(t *testing.T) {
	empty := organism.NewEmpty()
	a := population.New("a", 0, 3, empty)
	a.Install(0, testutil.NewTagOrg(1, nil))
	a.Install(2, testutil.NewTagOrg(2, nil))

	orig := population.NewCollection(a.Position(0))
	cp := orig
	cp.Insert(a.Position(1))
	require.Equal(t, 1, orig.Len())
	require.False(t, orig.Has(a.Position(1)))
	require.Equal(t, 2, cp.Len())

	orig.Insert(a.Position(1))
	require.Equal(t, 2, orig.Len())
	require.True(t, orig.Has(a.Position(1)))

	// Two copies growing from the same spare capacity keep their own tails.
	left, right := orig, orig
	z := population.New("z", 1, 1, empty)
	left.Insert(a.Position(2))
	right.Insert(z.Position(0))
	require.Equal(t, "a", left.String())
	require.Equal(t, "a[0,1],z", right.String())
	require.Equal(t, "a[0,1]", orig.String())

	x := population.FromPopulation(a)
	y := x
	y.RemoveEmpty()
	require.Equal(t, "a[0,2]", y.String())
	require.Equal(t, 3, x.Len())
	require.Equal(t, "a", x.String())
	require.Equal(t, 2, x.NumOrgs())
}
