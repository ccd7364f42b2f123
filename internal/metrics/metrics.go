// Package metrics exposes run statistics as prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "evogrid"

// Recorder owns a private registry with the collectors of one run.
type Recorder struct {
	reg *prometheus.Registry

	Births     *prometheus.CounterVec
	Deaths     *prometheus.CounterVec
	Injections *prometheus.CounterVec
	Mutations  prometheus.Counter
	Tick       prometheus.Gauge
	Orgs       *prometheus.GaugeVec
	TraitMean  *prometheus.GaugeVec
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		Births: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "births_total",
			Help:      "Organisms placed by reproduction.",
		}, []string{"population"}),
		Deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Organisms removed from a population.",
		}, []string{"population"}),
		Injections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injections_total",
			Help:      "Organisms placed by injection.",
		}, []string{"population"}),
		Mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Offspring mutated before placement.",
		}),
		Tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tick",
			Help:      "Current update number.",
		}),
		Orgs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "organisms",
			Help:      "Living organisms per population.",
		}, []string{"population"}),
		TraitMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trait_mean",
			Help:      "Mean value of a numeric trait over living organisms.",
		}, []string{"population", "trait"}),
	}
	r.reg.MustRegister(r.Births, r.Deaths, r.Injections, r.Mutations, r.Tick, r.Orgs, r.TraitMean)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values to path for the node exporter
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
