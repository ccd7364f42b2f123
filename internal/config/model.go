package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Model is the merged content of every loaded run script.
type Model struct {
	Seed        int64
	Updates     uint64
	Populations []*Population
	Modules     []*Module
	Events      []*Event
	// Overrides holds `--set module.attr=value` statements per module name.
	Overrides map[string]hcl.Body
	// Files maps each loaded filename to its source, for diagnostics.
	Files map[string]*hcl.File
}

// Population is a `population "name" {}` block.
type Population struct {
	Name  string
	Size  int
	Range hcl.Range
}

// Module is a `module "Type" "name" {}` block.
type Module struct {
	Type  string
	Name  string
	Body  hcl.Body
	Range hcl.Range
}

// Event is an `event "kind" {}` block. Kind is start, update or exit.
type Event struct {
	Kind    string
	Start   uint64
	Every   uint64
	Stop    uint64
	Print   hcl.Expression
	Exit    bool
	Injects []*Inject
	Copies  []*PopPair
	Moves   []*PopPair
	Resizes []*Resize
	Range   hcl.Range
	// Source is the block's original text, used by Generate.
	Source []byte
}

// Inject adds organisms built by a module to a population.
type Inject struct {
	Pop   string `hcl:"pop"`
	Type  string `hcl:"type"`
	Count int    `hcl:"count,optional"`
}

// PopPair names a source and a destination population.
type PopPair struct {
	From  string `hcl:"from"`
	To    string `hcl:"to"`
	Reset bool   `hcl:"reset,optional"`
}

// Resize changes the size of a population.
type Resize struct {
	Pop  string `hcl:"pop"`
	Size int    `hcl:"size"`
}

// Population looks a population block up by name.
func (m *Model) Population(name string) (*Population, bool) {
	for _, p := range m.Populations {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
