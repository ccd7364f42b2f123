package controller

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/evogrid/internal/equation"
	"github.com/vk/evogrid/internal/population"
)

// EvalContext exposes the current state of the run to HCL expressions:
// `tick`, `seed`, one string variable per population name, and the
// summary functions trait, mean, size and count next to the equation
// math functions. filter, find_min and find_max return targets, so their
// results can be passed on to the other functions.
func (c *Controller) EvalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{
		"tick": cty.NumberUIntVal(c.tick),
		"seed": cty.NumberIntVal(c.seed),
	}
	for _, pop := range c.pops {
		vars[pop.Name()] = cty.StringVal(pop.Name())
	}
	funcs := equation.Functions()
	funcs["trait"] = c.traitFunc()
	funcs["mean"] = c.meanFunc()
	funcs["size"] = c.sizeFunc(false)
	funcs["count"] = c.sizeFunc(true)
	funcs["filter"] = c.filterFunc()
	funcs["find_min"] = c.findFunc(c.FindMin)
	funcs["find_max"] = c.findFunc(c.FindMax)
	return &hcl.EvalContext{Variables: vars, Functions: funcs}
}

// Preprocess replaces `${expr}` in src with expr evaluated against the
// current state.
func (c *Controller) Preprocess(src string) (string, error) {
	return equation.Preprocess(src, c.EvalContext())
}

func (c *Controller) traitFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "target", Type: cty.String},
			{Name: "equation", Type: cty.String},
		},
		VarParam: &function.Parameter{Name: "filter", Type: cty.String},
		Type:     function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			filter := ""
			if len(args) > 3 {
				return cty.NilVal, fmt.Errorf("trait takes at most one filter")
			}
			if len(args) == 3 {
				filter = args[2].AsString()
			}
			return c.summary(args[0].AsString(), args[1].AsString(), filter)
		},
	})
}

func (c *Controller) meanFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "target", Type: cty.String},
			{Name: "equation", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return c.summary(args[0].AsString(), args[1].AsString(), "mean")
		},
	})
}

func (c *Controller) sizeFunc(living bool) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "target", Type: cty.String}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			coll, err := c.ToCollection(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			if living {
				return cty.NumberIntVal(int64(coll.NumOrgs())), nil
			}
			return cty.NumberIntVal(int64(coll.Len())), nil
		},
	})
}

func (c *Controller) filterFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "target", Type: cty.String},
			{Name: "equation", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			coll, err := c.ToCollection(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			out, err := c.Filter(coll, args[1].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(out.String()), nil
		},
	})
}

// findFunc wraps FindMin or FindMax. An empty target yields "".
func (c *Controller) findFunc(find func(population.Collection, string) (population.Position, error)) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "target", Type: cty.String},
			{Name: "equation", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			coll, err := c.ToCollection(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			pos, err := find(coll, args[1].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(population.NewCollection(pos).String()), nil
		},
	})
}

func (c *Controller) summary(target, eq, filter string) (cty.Value, error) {
	coll, err := c.ToCollection(target)
	if err != nil {
		return cty.NilVal, err
	}
	return c.TraitSummary(coll, eq, filter)
}
