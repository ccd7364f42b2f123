package print_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/testutil"
	"github.com/vk/evogrid/modules/print"
)

func TestPrinter_WritesDueUpdates(t *testing.T) {
	var out strings.Builder
	owner := testutil.NewTraitOwner("owner", "score")
	p, err := print.New("out", print.Input{Target: "main", Columns: []string{"score", "score:max", "score:richness"}, Every: 2}, &out)
	require.NoError(t, err)

	c := testutil.NewController(t, map[string]int{"main": 3}, owner, p)
	require.NoError(t, c.Setup())
	pop, _ := c.Population("main")
	c.InjectAt(owner.Org(1, 1), pop.Position(0))
	c.InjectAt(owner.Org(2, 5), pop.Position(2))

	c.Update(3)
	require.Equal(t, "update=2 score:mean=3 score:max=5 score:richness=2\n", out.String())
}

func TestNew_RequiresColumns(t *testing.T) {
	_, err := print.New("out", print.Input{Target: "main"}, nil)
	require.Error(t, err)
}
