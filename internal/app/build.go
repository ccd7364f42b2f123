package app

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/evogrid/internal/config"
	"github.com/vk/evogrid/internal/controller"
)

// build creates a controller with the model's populations and modules.
// Problems are collected in the controller's notes and surface from Setup.
// It returns the decoded module inputs by module name.
func (a *App) build(model *config.Model) (*controller.Controller, map[string]any) {
	ctl := controller.New(controller.WithLogger(a.logger), controller.WithSeed(model.Seed))
	notes := ctl.Notes()

	for _, p := range model.Populations {
		if _, err := ctl.AddPopulation(p.Name, p.Size); err != nil {
			notes.Append(hcl.Diagnostics{rangeError("Invalid population", err.Error(), p.Range)})
		}
	}

	inputs := make(map[string]any, len(model.Modules))
	for _, mod := range model.Modules {
		entry, ok := a.registry.Lookup(mod.Type)
		if !ok {
			notes.Append(hcl.Diagnostics{rangeError("Unknown module type",
				fmt.Sprintf("No module type %q is registered. Known types: %s.", mod.Type, strings.Join(a.registry.Types(), ", ")),
				mod.Range)})
			continue
		}

		var input any
		if entry.NewInput != nil {
			input = entry.NewInput()
			diags := gohcl.DecodeBody(mod.Body, ctl.EvalContext(), input)
			if override, ok := model.Overrides[mod.Name]; ok {
				diags = append(diags, applyOverrides(override, ctl.EvalContext(), input)...)
			}
			notes.Append(diags)
			if diags.HasErrors() {
				continue
			}
			inputs[mod.Name] = input
		}

		m, err := a.registry.Build(mod.Type, mod.Name, input)
		if err != nil {
			notes.Append(hcl.Diagnostics{rangeError("Invalid module settings", err.Error(), mod.Range)})
			continue
		}
		if err := ctl.AddModule(m); err != nil {
			notes.Append(hcl.Diagnostics{rangeError("Invalid module", err.Error(), mod.Range)})
		}
	}
	return ctl, inputs
}

// applyOverrides sets the fields of input named by the attributes of body.
// Each field is matched by its hcl tag and the value converted to the
// field's type.
func applyOverrides(body hcl.Body, ctx *hcl.EvalContext, input any) hcl.Diagnostics {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	fields := hclFields(input)
	for name, attr := range attrs {
		field, ok := fields[name]
		if !ok {
			diags = append(diags, rangeError("Unsupported argument",
				fmt.Sprintf("An argument named %q is not expected here.", name), attr.Range))
			continue
		}
		val, valDiags := attr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		target := field.Addr().Interface()
		ty, err := gocty.ImpliedType(target)
		if err == nil {
			val, err = convert.Convert(val, ty)
		}
		if err == nil {
			err = gocty.FromCtyValue(val, target)
		}
		if err != nil {
			diags = append(diags, rangeError("Incorrect attribute value type", err.Error(), attr.Range))
		}
	}
	return diags
}

func hclFields(input any) map[string]reflect.Value {
	v := reflect.ValueOf(input).Elem()
	t := v.Type()
	out := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("hcl")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		out[name] = v.Field(i)
	}
	return out
}

func rangeError(summary, detail string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}
