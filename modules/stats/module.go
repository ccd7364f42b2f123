// Package stats feeds run counters and trait means into a prometheus
// recorder.
package stats

import (
	"github.com/vk/evogrid/internal/metrics"
	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "Metrics"

// Plugin registers the Metrics module type. Every instance reports to
// Recorder, which the application also serves over HTTP.
type Plugin struct {
	Recorder *metrics.Recorder
}

// Input holds the settings of a `module "Metrics"` block.
type Input struct {
	Traits   []string `hcl:"traits,optional"`
	Textfile string   `hcl:"textfile,optional"`
}

func (p Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Exports births, deaths, injections and trait means as prometheus metrics.",
		NewInput: func() any { return &Input{} },
		New: func(name string, input any) (module.Module, error) {
			rec := p.Recorder
			if rec == nil {
				rec = metrics.New()
			}
			return New(name, *input.(*Input), rec), nil
		},
	})
}

// Stats counts lifecycle signals.
type Stats struct {
	module.Base
	input Input
	rec   *metrics.Recorder
}

func New(name string, input Input, rec *metrics.Recorder) *Stats {
	return &Stats{
		Base:  module.NewBase(name, typeName, "Exports run statistics as prometheus metrics."),
		input: input,
		rec:   rec,
	}
}

// Recorder returns the recorder the module reports to.
func (s *Stats) Recorder() *metrics.Recorder { return s.rec }

func (s *Stats) SetupModule(module.Host) error {
	for _, eq := range s.input.Traits {
		s.AddRequiredEquation(eq)
	}
	return nil
}

func (s *Stats) OnOffspringReady(_ organism.Organism, _ population.Position, target *population.Population) {
	s.rec.Births.WithLabelValues(target.Name()).Inc()
}

func (s *Stats) OnInjectReady(_ organism.Organism, target *population.Population) {
	s.rec.Injections.WithLabelValues(target.Name()).Inc()
}

func (s *Stats) OnMutate(organism.Organism) { s.rec.Mutations.Inc() }

func (s *Stats) BeforeDeath(pos population.Position) {
	s.rec.Deaths.WithLabelValues(pos.Pop().Name()).Inc()
}

func (s *Stats) OnUpdate(tick uint64) {
	h := s.Host()
	s.rec.Tick.Set(float64(tick))
	for _, pop := range h.Populations() {
		s.rec.Orgs.WithLabelValues(pop.Name()).Set(float64(pop.NumOrgs()))
		for _, eq := range s.input.Traits {
			v, err := h.TraitSummary(population.FromPopulation(pop), eq, "mean")
			if err != nil {
				h.AddError("module %q: %s", s.Name(), err)
				return
			}
			f, err := trait.ToFloat(v)
			if err != nil {
				h.AddError("module %q: mean of %s: %s", s.Name(), eq, err)
				return
			}
			s.rec.TraitMean.WithLabelValues(pop.Name(), eq).Set(f)
		}
	}
}

func (s *Stats) BeforeExit() {
	if s.input.Textfile == "" {
		return
	}
	if err := s.rec.WriteTextfile(s.input.Textfile); err != nil {
		s.Host().Logger().Error("Writing metrics textfile failed.", "module", s.Name(), "error", err)
	}
}
