// Package archiver records trait summaries of a collection to an archive
// store every few updates.
package archiver

import (
	"context"
	"fmt"

	"github.com/vk/evogrid/internal/archive"
	"github.com/vk/evogrid/internal/ctxlog"
	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/trait"
)

const typeName = "Archive"

type Plugin struct{}

// Input holds the settings of a `module "Archive"` block. An empty path
// keeps records in memory. When UploadURL is set the sqlite file is PUT to
// it after the store is closed.
type Input struct {
	Path      string   `hcl:"path,optional"`
	Target    string   `hcl:"target"`
	Traits    []string `hcl:"traits"`
	Filters   []string `hcl:"filters,optional"`
	Every     uint64   `hcl:"every,optional"`
	UploadURL string   `hcl:"upload_url,optional"`
}

func (Plugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type:     typeName,
		Desc:     "Writes trait summaries to a sqlite or in-memory archive.",
		NewInput: func() any { return &Input{Filters: []string{"mean"}, Every: 1} },
		New: func(name string, input any) (module.Module, error) {
			return New(name, *input.(*Input))
		},
	})
}

// Archiver owns one store and one run record.
type Archiver struct {
	module.Base
	input Input
	store archive.Store
	run   archive.Run
}

func New(name string, input Input) (*Archiver, error) {
	if input.Target == "" {
		return nil, fmt.Errorf("target is required")
	}
	if len(input.Traits) == 0 {
		return nil, fmt.Errorf("at least one trait is required")
	}
	if len(input.Filters) == 0 {
		input.Filters = []string{"mean"}
	}
	if input.Every == 0 {
		input.Every = 1
	}
	if input.UploadURL != "" && (input.Path == "" || input.Path == ":memory:") {
		return nil, fmt.Errorf("upload_url needs a file path")
	}
	return &Archiver{
		Base:  module.NewBase(name, typeName, "Writes trait summaries to an archive."),
		input: input,
		store: archive.Open(input.Path),
	}, nil
}

// Store returns the archive the module writes to.
func (a *Archiver) Store() archive.Store { return a.store }

// Run returns the run record created at setup.
func (a *Archiver) Run() archive.Run { return a.run }

func (a *Archiver) SetupModule(h module.Host) error {
	for _, eq := range a.input.Traits {
		a.AddRequiredEquation(eq)
	}
	ctx := context.Background()
	if err := a.store.Init(ctx); err != nil {
		return fmt.Errorf("opening archive %q: %w", a.input.Path, err)
	}
	a.run = archive.NewRun(h.Seed())
	if err := a.store.StartRun(ctx, a.run); err != nil {
		return err
	}
	h.Logger().Info("Archive opened.", "module", a.Name(), "path", a.input.Path, "run_id", a.run.ID)
	return nil
}

func (a *Archiver) OnUpdate(tick uint64) {
	if tick%a.input.Every != 0 {
		return
	}
	h := a.Host()
	coll, err := h.ToCollection(a.input.Target)
	if err != nil {
		h.AddError("module %q: %s", a.Name(), err)
		return
	}
	records := make([]archive.Record, 0, len(a.input.Traits)*len(a.input.Filters))
	for _, eq := range a.input.Traits {
		for _, filter := range a.input.Filters {
			v, err := h.TraitSummary(coll, eq, filter)
			if err != nil {
				h.AddError("module %q: %s", a.Name(), err)
				return
			}
			records = append(records, archive.Record{
				RunID:  a.run.ID,
				Tick:   tick,
				Target: a.input.Target,
				Column: eq + ":" + filter,
				Value:  trait.Format(v),
			})
		}
	}
	if err := a.store.Append(context.Background(), records...); err != nil {
		h.AddError("module %q: %s", a.Name(), err)
	}
}

func (a *Archiver) BeforeExit() {
	h := a.Host()
	if err := a.store.Close(); err != nil {
		h.Logger().Error("Closing archive failed.", "module", a.Name(), "error", err)
		return
	}
	if a.input.UploadURL == "" {
		return
	}
	ctx := ctxlog.WithLogger(context.Background(), h.Logger().With("module", a.Name()))
	if _, err := upload(ctx, a.input.Path, a.input.UploadURL); err != nil {
		h.AddError("module %q: %s", a.Name(), err)
	}
}
