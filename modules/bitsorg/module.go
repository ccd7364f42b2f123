// Package bitsorg provides organisms whose genome is a fixed-length bit
// string. The genome is mirrored into a string trait so other modules can
// read it.
package bitsorg

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "BitsOrg"

// Plugin registers the BitsOrg module type.
type Plugin struct{}

// Input holds the settings of a `module "BitsOrg"` block.
type Input struct {
	Length     int     `hcl:"length,optional"`
	MutProb    float64 `hcl:"mut_prob,optional"`
	InitRandom bool    `hcl:"init_random,optional"`
	Trait      string  `hcl:"trait,optional"`
}

func newInput() any {
	return &Input{Length: 64, MutProb: 0.01, InitRandom: true, Trait: "bits"}
}

// Register adds the module type to r.
func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Organisms with a bit-string genome.",
		NewInput: newInput,
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input))
		},
	})
}

// Manager builds BitsOrg organisms.
type Manager struct {
	module.Base
	input  Input
	layout *trait.Layout
	slot   int
}

var _ organism.Manager = (*Manager)(nil)

// New validates input and creates a manager.
func New(name string, input Input) (*Manager, error) {
	if input.Length <= 0 {
		return nil, fmt.Errorf("length must be positive, got %d", input.Length)
	}
	if input.MutProb < 0 || input.MutProb > 1 {
		return nil, fmt.Errorf("mut_prob must be within [0, 1], got %g", input.MutProb)
	}
	if input.Trait == "" {
		return nil, fmt.Errorf("trait name is required")
	}
	return &Manager{
		Base:  module.NewBase(name, typeName, "Organisms with a bit-string genome."),
		input: input,
		slot:  -1,
	}, nil
}

func (m *Manager) SetupModule(module.Host) error {
	info := m.AddOwnedTrait(m.input.Trait, "Bit-string genome.", cty.String, cty.StringVal(""))
	if info != nil {
		info.SetInit(trait.InitFirst)
	}
	return nil
}

func (m *Manager) SetupLayout(l *trait.Layout) error {
	id, ok := l.ID(m.input.Trait)
	if !ok {
		return fmt.Errorf("trait %q missing from layout", m.input.Trait)
	}
	m.layout, m.slot = l, id
	return nil
}

// Make builds a new organism, random when init_random is set and all
// zeros otherwise.
func (m *Manager) Make(rng *rand.Rand) organism.Organism {
	org := &Org{
		Base: organism.NewBase(m.layout.NewStore()),
		mgr:  m,
		bits: make([]bool, m.input.Length),
	}
	if m.input.InitRandom {
		org.Randomize(rng)
	}
	org.sync()
	return org
}

// Org is one bit-string organism.
type Org struct {
	organism.Base
	mgr  *Manager
	bits []bool
}

// Bits returns a copy of the genome.
func (o *Org) Bits() []bool { return append([]bool(nil), o.bits...) }

// Ones returns the number of set bits.
func (o *Org) Ones() int {
	n := 0
	for _, b := range o.bits {
		if b {
			n++
		}
	}
	return n
}

func (o *Org) Clone() organism.Organism {
	return &Org{Base: o.CloneBase(), mgr: o.mgr, bits: o.Bits()}
}

// Mutate flips each bit with probability mut_prob.
func (o *Org) Mutate(rng *rand.Rand) int {
	n := 0
	for i := range o.bits {
		if rng.Float64() < o.mgr.input.MutProb {
			o.bits[i] = !o.bits[i]
			n++
		}
	}
	if n > 0 {
		o.sync()
	}
	return n
}

func (o *Org) Randomize(rng *rand.Rand) {
	for i := range o.bits {
		o.bits[i] = rng.Intn(2) == 1
	}
	o.sync()
}

func (o *Org) String() string {
	var sb strings.Builder
	sb.Grow(len(o.bits))
	for _, b := range o.bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (o *Org) sync() {
	s := o.Traits()
	if s == nil || o.mgr.slot < 0 {
		return
	}
	if err := s.Set(o.mgr.slot, cty.StringVal(o.String())); err != nil {
		if h := o.mgr.Host(); h != nil {
			h.AddError("module %q: %s", o.mgr.Name(), err)
		}
	}
}
