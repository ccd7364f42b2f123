package app

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/evogrid/internal/config"
	"github.com/vk/evogrid/internal/controller"
	"github.com/vk/evogrid/internal/population"
)

// schedule registers the model's events with ctl and returns the actions
// of exit events, which run after the last update.
func (a *App) schedule(ctl *controller.Controller, model *config.Model) []func(uint64) {
	var exits []func(uint64)
	for _, ev := range model.Events {
		action := a.eventAction(ctl, ev)
		switch ev.Kind {
		case "start":
			ctl.OnStart(func() { action(ctl.Tick()) })
		case "update":
			ctl.Schedule(&controller.Event{
				Name:   fmt.Sprintf("update %s", ev.Range),
				Start:  ev.Start,
				Every:  ev.Every,
				Stop:   ev.Stop,
				Action: action,
			})
		case "exit":
			exits = append(exits, action)
		}
	}
	return exits
}

// eventAction runs the actions of one event block in a fixed order:
// inject, copy, move, resize, print, exit.
func (a *App) eventAction(ctl *controller.Controller, ev *config.Event) func(uint64) {
	return func(tick uint64) {
		for _, in := range ev.Injects {
			if pop, ok := a.population(ctl, in.Pop); ok {
				ctl.InjectByName(pop, in.Type, in.Count)
			}
		}
		for _, cp := range ev.Copies {
			src, ok1 := a.population(ctl, cp.From)
			dst, ok2 := a.population(ctl, cp.To)
			if ok1 && ok2 {
				if err := ctl.CopyPop(src, dst); err != nil {
					ctl.AddError("event at %s: %s", ev.Range, err)
				}
			}
		}
		for _, mv := range ev.Moves {
			src, ok1 := a.population(ctl, mv.From)
			dst, ok2 := a.population(ctl, mv.To)
			if ok1 && ok2 {
				if err := ctl.MoveOrgs(src, dst, mv.Reset); err != nil {
					ctl.AddError("event at %s: %s", ev.Range, err)
				}
			}
		}
		for _, rs := range ev.Resizes {
			if pop, ok := a.population(ctl, rs.Pop); ok {
				if err := ctl.ResizePop(pop, rs.Size); err != nil {
					ctl.AddError("event at %s: %s", ev.Range, err)
				}
			}
		}
		if ev.HasPrint() {
			a.print(ctl, ev)
		}
		if ev.Exit {
			a.logger.Info("Exit requested by event.", "tick", tick)
			ctl.Exit()
		}
	}
}

func (a *App) population(ctl *controller.Controller, name string) (*population.Population, bool) {
	pop, ok := ctl.Population(name)
	if !ok {
		ctl.AddError("event refers to unknown population %q", name)
	}
	return pop, ok
}

func (a *App) print(ctl *controller.Controller, ev *config.Event) {
	val, diags := ev.Print.Value(ctl.EvalContext())
	if diags.HasErrors() {
		ctl.Notes().Append(diags)
		return
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() {
		ctl.AddError("event at %s: print value is not a string", ev.Range)
		return
	}
	fmt.Fprintln(a.outW, str.AsString())
}
