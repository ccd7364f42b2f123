// Package webhook posts trait summaries as JSON to an HTTP endpoint, every
// few updates and once more when the run ends.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "Webhook"

type Plugin struct{}

// Input holds the settings of a `module "Webhook"` block. Every 0 sends
// only the final summary.
type Input struct {
	URL     string   `hcl:"url"`
	Method  string   `hcl:"method,optional"`
	Target  string   `hcl:"target"`
	Traits  []string `hcl:"traits"`
	Filters []string `hcl:"filters,optional"`
	Every   uint64   `hcl:"every,optional"`
	Timeout string   `hcl:"timeout,optional"`
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Posts trait summaries as JSON to an HTTP endpoint.",
		NewInput: func() any { return &Input{Method: http.MethodPost, Filters: []string{"mean"}, Timeout: "10s"} },
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input))
		},
	})
}

// Payload is the JSON body of one request. Values are keyed "trait:filter".
type Payload struct {
	Module string            `json:"module"`
	Tick   uint64            `json:"tick"`
	Target string            `json:"target"`
	Final  bool              `json:"final"`
	Values map[string]string `json:"values"`
}

// Webhook owns one HTTP client for the whole run.
type Webhook struct {
	module.Base
	input  Input
	client *http.Client
	sent   int
}

func New(name string, input Input) (*Webhook, error) {
	if input.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if input.Target == "" || len(input.Traits) == 0 {
		return nil, fmt.Errorf("target and traits are required")
	}
	if input.Method == "" {
		input.Method = http.MethodPost
	}
	input.Method = strings.ToUpper(input.Method)
	if len(input.Filters) == 0 {
		input.Filters = []string{"mean"}
	}
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}
	return &Webhook{
		Base:   module.NewBase(name, typeName, "Posts trait summaries as JSON to an HTTP endpoint."),
		input:  input,
		client: newClient(timeout),
	}, nil
}

// Sent returns the number of requests delivered successfully.
func (w *Webhook) Sent() int { return w.sent }

func (w *Webhook) SetupModule(module.Host) error {
	for _, eq := range w.input.Traits {
		w.AddRequiredEquation(eq)
	}
	return nil
}

func (w *Webhook) OnUpdate(tick uint64) {
	if w.input.Every == 0 || tick%w.input.Every != 0 {
		return
	}
	w.post(tick, false)
}

func (w *Webhook) BeforeExit() {
	w.post(w.Host().Tick(), true)
	w.client.CloseIdleConnections()
}

func (w *Webhook) post(tick uint64, final bool) {
	h := w.Host()
	coll, err := h.ToCollection(w.input.Target)
	if err != nil {
		h.AddError("module %q: %s", w.Name(), err)
		return
	}
	p := Payload{
		Module: w.Name(),
		Tick:   tick,
		Target: w.input.Target,
		Final:  final,
		Values: make(map[string]string, len(w.input.Traits)*len(w.input.Filters)),
	}
	for _, eq := range w.input.Traits {
		for _, filter := range w.input.Filters {
			v, err := h.TraitSummary(coll, eq, filter)
			if err != nil {
				h.AddError("module %q: %s", w.Name(), err)
				return
			}
			p.Values[eq+":"+filter] = trait.Format(v)
		}
	}

	logger := h.Logger().With("module", w.Name())
	status, err := send(context.Background(), w.client, w.input.Method, w.input.URL, p)
	if err != nil {
		h.AddWarning("module %q: %s", w.Name(), err)
		return
	}
	w.sent++
	logger.Debug("Webhook delivered.", "tick", tick, "status", status, "final", final)
}
