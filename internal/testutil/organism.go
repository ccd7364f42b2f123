package testutil

import (
	"math/rand"
	"strconv"

	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/trait"
)

// TagOrg is a minimal organism carrying an integer tag. Mutate increments
// the tag so tests can tell clones and mutants apart.
type TagOrg struct {
	organism.Base
	Tag int
}

// NewTagOrg builds a TagOrg. traits may be nil.
func NewTagOrg(tag int, traits *trait.Store) *TagOrg {
	return &TagOrg{Base: organism.NewBase(traits), Tag: tag}
}

func (o *TagOrg) Clone() organism.Organism {
	return &TagOrg{Base: o.CloneBase(), Tag: o.Tag}
}

func (o *TagOrg) Mutate(*rand.Rand) int  { o.Tag++; return 1 }
func (o *TagOrg) Randomize(r *rand.Rand) { o.Tag = r.Intn(1000) }
func (o *TagOrg) String() string         { return "tag" + strconv.Itoa(o.Tag) }

// TagManager makes TagOrgs with increasing tags.
type TagManager struct {
	Layout *trait.Layout
	next   int
}

func (m *TagManager) Name() string { return "tag" }

func (m *TagManager) Make(*rand.Rand) organism.Organism {
	var traits *trait.Store
	if m.Layout != nil {
		traits = m.Layout.NewStore()
	}
	m.next++
	return NewTagOrg(m.next, traits)
}
