// Package evalones scores bit strings by the number of ones they contain.
package evalones

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "EvalOnes"

type Plugin struct{}

// Input holds the settings of a `module "EvalOnes"` block.
type Input struct {
	Bits    string `hcl:"bits_trait,optional"`
	Fitness string `hcl:"fitness_trait,optional"`
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Counts the ones in a bit-string trait.",
		NewInput: func() any { return &Input{Bits: "bits", Fitness: "ones"} },
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input))
		},
	})
}

// Evaluator writes the ones count of every placed organism.
type Evaluator struct {
	module.Base
	input   Input
	bits    int
	fitness int
}

func New(name string, input Input) (*Evaluator, error) {
	if input.Bits == "" || input.Fitness == "" {
		return nil, fmt.Errorf("bits_trait and fitness_trait must not be empty")
	}
	return &Evaluator{
		Base:  module.NewBase(name, typeName, "Counts the ones in a bit-string trait."),
		input: input,
	}, nil
}

func (e *Evaluator) SetupModule(module.Host) error {
	e.AddRequiredTrait(e.input.Bits, cty.String)
	e.AddOwnedTrait(e.input.Fitness, "Number of ones in "+e.input.Bits+".", cty.Number, cty.Zero)
	return nil
}

func (e *Evaluator) SetupLayout(l *trait.Layout) error {
	var ok bool
	if e.bits, ok = l.ID(e.input.Bits); !ok {
		return fmt.Errorf("trait %q missing from layout", e.input.Bits)
	}
	if e.fitness, ok = l.ID(e.input.Fitness); !ok {
		return fmt.Errorf("trait %q missing from layout", e.input.Fitness)
	}
	return nil
}

// OnPlacement scores the organism that was just placed.
func (e *Evaluator) OnPlacement(pos population.Position) {
	traits := pos.Org().Traits()
	if traits == nil {
		return
	}
	bits, err := traits.String(e.bits)
	if err != nil {
		e.Host().AddError("module %q: %s", e.Name(), err)
		return
	}
	if err := traits.SetFloat(e.fitness, float64(strings.Count(bits, "1"))); err != nil {
		e.Host().AddError("module %q: %s", e.Name(), err)
	}
}
