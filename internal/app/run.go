package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/evogrid/internal/config"
	"github.com/vk/evogrid/internal/ctxlog"
)

// ErrConfig is returned when the run scripts cannot be loaded.
var ErrConfig = errors.New("invalid configuration")

// Run executes one invocation: help, module listing, version, generation
// of the effective configuration, or a full simulation run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	switch {
	case a.config.Version:
		fmt.Fprintf(a.outW, "evogrid %s\n", Version)
		return nil
	case a.config.ListModules:
		a.listModules()
		return nil
	case a.config.Help:
		return a.help(a.config.HelpTopic)
	}

	model, diags := config.Load(ctx, a.config.Files...)
	if model != nil {
		diags = append(diags, model.ApplySet(a.config.Sets)...)
	}
	if diags.HasErrors() {
		a.writeDiagnostics(model, diags)
		return fmt.Errorf("%w: %w", ErrConfig, diags)
	}

	ctl, inputs := a.build(model)
	a.ctl = ctl
	defer ctl.Close()

	if a.config.Generate != "" {
		data := model.Generate(func(mod *config.Module) (any, bool) {
			in, ok := inputs[mod.Name]
			return in, ok
		})
		if err := os.WriteFile(a.config.Generate, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.config.Generate, err)
		}
		a.logger.Info("Configuration written.", "path", a.config.Generate)
		return nil
	}

	exits := a.schedule(ctl, model)
	if err := ctl.Setup(); err != nil {
		a.writeDiagnostics(model, ctl.Notes().Diagnostics())
		return err
	}

	if a.config.MetricsPort > 0 {
		a.startServer(a.config.MetricsPort)
		defer func() { _ = a.closeServer(ctx) }()
	}

	a.logger.Info("Starting run.", "updates", model.Updates, "seed", ctl.Seed())
	if err := ctl.Run(ctx, model.Updates); err != nil {
		return err
	}
	for _, action := range exits {
		action(ctl.Tick())
	}
	ctl.Close()

	if n := ctl.Notes().NumErrors(); n > 0 {
		return fmt.Errorf("run finished with %d error(s): %w", n, ctl.Notes().Err())
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// writeDiagnostics renders diags with source snippets to the log writer.
func (a *App) writeDiagnostics(model *config.Model, diags hcl.Diagnostics) {
	var files map[string]*hcl.File
	if model != nil {
		files = model.Files
	}
	w := hcl.NewDiagnosticTextWriter(a.logW, files, 100, false)
	_ = w.WriteDiagnostics(diags)
}
