// Package placement swaps a population's birth placement for local
// replacement: offspring land next to their parent, killing whatever
// lived there.
package placement

import (
	"fmt"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/registry"
)

const typeName = "GrowthPlacement"

type Plugin struct{}

// Input holds the settings of a `module "GrowthPlacement"` block.
// Neighborhood is "random" (any slot) or "ring" (the slot on either side).
type Input struct {
	Pop          string `hcl:"pop"`
	Neighborhood string `hcl:"neighborhood,optional"`
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Places offspring in a neighbor slot of their parent.",
		NewInput: func() any { return &Input{Neighborhood: "random"} },
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input))
		},
	})
}

// Growth installs its placement functions on one population at setup.
type Growth struct {
	module.Base
	input Input
}

func New(name string, input Input) (*Growth, error) {
	if input.Pop == "" {
		return nil, fmt.Errorf("pop is required")
	}
	switch input.Neighborhood {
	case "random", "ring":
	default:
		return nil, fmt.Errorf("unknown neighborhood %q", input.Neighborhood)
	}
	return &Growth{
		Base:  module.NewBase(name, typeName, "Places offspring in a neighbor slot of their parent."),
		input: input,
	}, nil
}

func (g *Growth) SetupModule(h module.Host) error {
	pop, ok := h.Population(g.input.Pop)
	if !ok {
		return fmt.Errorf("unknown population %q", g.input.Pop)
	}
	if g.input.Neighborhood == "ring" {
		pop.SetFindNeighbor(func(pos population.Position) population.Position {
			return Ring(h, pos)
		})
	}
	pop.SetPlaceBirth(func(_ organism.Organism, parent population.Position) population.Position {
		if parent.IsValid() && parent.InPop(pop) {
			return pop.FindNeighbor(parent)
		}
		return h.RandomPos(pop)
	})
	return nil
}

// Ring returns the slot just before or just after pos, chosen at random,
// wrapping at the ends.
func Ring(h module.Host, pos population.Position) population.Position {
	pop := pos.Pop()
	if !pos.IsValid() || pop.Size() == 0 {
		return population.Position{}
	}
	step := 1
	if h.RNG().Intn(2) == 0 {
		step = -1
	}
	i := (pos.Index() + step + pop.Size()) % pop.Size()
	return pop.Position(i)
}
