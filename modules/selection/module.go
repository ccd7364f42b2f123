// Package selection replaces a population each update with offspring of
// parents chosen by fitness.
package selection

import (
	"fmt"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/registry"
)

// Plugin registers EliteSelect and TournamentSelect.
type Plugin struct{}

// Input holds the settings shared by both selection module types.
type Input struct {
	Pop     string `hcl:"pop"`
	Fitness string `hcl:"fitness,optional"`
	Count   int    `hcl:"count,optional"`
	Size    int    `hcl:"tournament_size,optional"`
	Mutate  bool   `hcl:"mutate,optional"`
	Next    string `hcl:"next_pop,optional"`
}

func newInput() any {
	return &Input{Fitness: "fitness", Count: 1, Size: 3, Mutate: true}
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     "EliteSelect",
		Desc:     "Each update, fills the next generation with offspring of the top count organisms.",
		NewInput: newInput,
		New: func(name string, input any) (module.Module, error) {
			in := *input.(*Input)
			return New(name, "EliteSelect", in, EliteSelector{Count: in.Count})
		},
	})
	r.Register(&registry.Entry{
		Type:     "TournamentSelect",
		Desc:     "Each update, fills the next generation with tournament winners.",
		NewInput: newInput,
		New: func(name string, input any) (module.Module, error) {
			in := *input.(*Input)
			return New(name, "TournamentSelect", in, TournamentSelector{Size: in.Size})
		},
	})
}

// Selection runs one generational replacement per update.
type Selection struct {
	module.Base
	input    Input
	selector Selector
	pop      *population.Population
	next     *population.Population
}

// New creates a selection module that picks parents with selector.
func New(name, typ string, input Input, selector Selector) (*Selection, error) {
	if input.Pop == "" {
		return nil, fmt.Errorf("pop is required")
	}
	if input.Fitness == "" {
		return nil, fmt.Errorf("fitness is required")
	}
	if input.Next == "" {
		input.Next = name + "_next"
	}
	return &Selection{
		Base:     module.NewBase(name, typ, "Generational selection by "+selector.Name()+"."),
		input:    input,
		selector: selector,
	}, nil
}

func (s *Selection) SetupModule(h module.Host) error {
	pop, ok := h.Population(s.input.Pop)
	if !ok {
		return fmt.Errorf("unknown population %q", s.input.Pop)
	}
	s.pop = pop
	if next, ok := h.Population(s.input.Next); ok {
		s.next = next
	} else {
		next, err := h.AddPopulation(s.input.Next, 0)
		if err != nil {
			return err
		}
		s.next = next
	}
	if s.next == s.pop {
		return fmt.Errorf("next_pop must differ from pop")
	}
	s.AddRequiredEquation(s.input.Fitness)
	return nil
}

// OnUpdate replaces every slot of the population with one offspring.
func (s *Selection) OnUpdate(uint64) {
	h := s.Host()
	ranked, err := s.ranked()
	if err != nil {
		h.AddError("module %q: %s", s.Name(), err)
		return
	}
	if len(ranked) == 0 {
		return
	}
	if err := h.EmptyPop(s.next, s.pop.Size()); err != nil {
		h.AddError("module %q: %s", s.Name(), err)
		return
	}
	for i := 0; i < s.pop.Size(); i++ {
		parent, err := s.selector.PickParent(h.RNG(), ranked)
		if err != nil {
			h.AddError("module %q: %s", s.Name(), err)
			return
		}
		h.DoBirth(parent.Pos.Org(), parent.Pos, s.next, 1, s.input.Mutate)
	}
	if err := h.MoveOrgs(s.next, s.pop, true); err != nil {
		h.AddError("module %q: %s", s.Name(), err)
	}
}

func (s *Selection) ranked() ([]Scored, error) {
	eq, err := s.Host().Compile(s.input.Fitness)
	if err != nil {
		return nil, err
	}
	var out []Scored
	for _, pos := range population.FromPopulation(s.pop).Occupied() {
		f, err := eq.Float(pos.Org().Traits())
		if err != nil {
			return nil, fmt.Errorf("fitness of %s: %w", pos, err)
		}
		out = append(out, Scored{Pos: pos, Fitness: f})
	}
	Rank(out)
	return out, nil
}
