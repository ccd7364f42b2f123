package equation

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions returns the functions available inside trait equations.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"log":    stdlib.LogFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"pow":    stdlib.PowFunc,
		"signum": stdlib.SignumFunc,
		"sqrt":   unaryFloat("sqrt", math.Sqrt),
		"exp":    unaryFloat("exp", math.Exp),
	}
}

// unaryFloat lifts fn into cty. A NaN result is an error since cty numbers
// cannot hold it.
func unaryFloat(name string, fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "x", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			f, _ := args[0].AsBigFloat().Float64()
			r := fn(f)
			if math.IsNaN(r) {
				return cty.NilVal, fmt.Errorf("%s of %g is undefined", name, f)
			}
			return cty.NumberFloatVal(r), nil
		},
	})
}
