// Package print writes trait summaries of a collection to the run's output
// every few updates.
package print

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "Print"

// Plugin registers the Print module type. Output defaults to stdout.
type Plugin struct {
	Output io.Writer
}

// Input holds the settings of a `module "Print"` block. Each column is
// "equation" or "equation:filter"; the filter defaults to mean.
type Input struct {
	Target  string   `hcl:"target"`
	Columns []string `hcl:"columns"`
	Every   uint64   `hcl:"every,optional"`
}

func (p Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Prints trait summaries of a collection every few updates.",
		NewInput: func() any { return &Input{Every: 1} },
		New: func(name string, input any) (module.Module, error) {
			out := p.Output
			if out == nil {
				out = os.Stdout
			}
			return New(name, *input.(*Input), out)
		},
	})
}

type column struct {
	eq, filter string
}

// Printer writes one line per due update.
type Printer struct {
	module.Base
	input   Input
	columns []column
	out     io.Writer
}

func New(name string, input Input, out io.Writer) (*Printer, error) {
	if input.Target == "" || len(input.Columns) == 0 {
		return nil, fmt.Errorf("target and columns are required")
	}
	if input.Every == 0 {
		input.Every = 1
	}
	p := &Printer{
		Base:  module.NewBase(name, typeName, "Prints trait summaries."),
		input: input,
		out:   out,
	}
	for _, c := range input.Columns {
		eq, filter, ok := strings.Cut(c, ":")
		if !ok {
			filter = "mean"
		}
		p.columns = append(p.columns, column{eq: strings.TrimSpace(eq), filter: strings.TrimSpace(filter)})
	}
	return p, nil
}

func (p *Printer) SetupModule(module.Host) error {
	for _, c := range p.columns {
		p.AddRequiredEquation(c.eq)
	}
	return nil
}

func (p *Printer) OnUpdate(tick uint64) {
	if tick%p.input.Every != 0 {
		return
	}
	h := p.Host()
	coll, err := h.ToCollection(p.input.Target)
	if err != nil {
		h.AddError("module %q: %s", p.Name(), err)
		return
	}
	fields := make([]string, 0, len(p.columns)+1)
	fields = append(fields, fmt.Sprintf("update=%d", tick))
	for _, c := range p.columns {
		v, err := h.TraitSummary(coll, c.eq, c.filter)
		if err != nil {
			h.AddError("module %q: %s", p.Name(), err)
			return
		}
		fields = append(fields, fmt.Sprintf("%s:%s=%s", c.eq, c.filter, trait.Format(v)))
	}
	fmt.Fprintln(p.out, strings.Join(fields, " "))
}
