package trait

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ZeroValue returns the value a slot of type t starts with when no default
// was supplied.
func ZeroValue(t cty.Type) cty.Value {
	switch {
	case t == cty.Number:
		return cty.Zero
	case t == cty.String:
		return cty.StringVal("")
	case t == cty.Bool:
		return cty.False
	case t.IsListType():
		return cty.ListValEmpty(t.ElementType())
	case t.IsSetType():
		return cty.SetValEmpty(t.ElementType())
	case t.IsMapType():
		return cty.MapValEmpty(t.ElementType())
	}
	return cty.NullVal(t)
}

// IsNumeric reports whether values of type t can be summarized as numbers.
func IsNumeric(t cty.Type) bool {
	return t == cty.Number || t == cty.Bool
}

// ToFloat converts a known, non-null number or bool to float64.
func ToFloat(v cty.Value) (float64, error) {
	if v.IsNull() || !v.IsKnown() {
		return 0, fmt.Errorf("%w: value is null or unknown", ErrType)
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		if v.True() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s is not numeric", ErrType, v.Type().FriendlyName())
}

// Format renders a value the way summaries and archives print it.
func Format(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "(unknown)"
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return fmt.Sprintf("%g", f)
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	return v.GoString()
}
