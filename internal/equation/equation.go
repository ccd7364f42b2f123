// Package equation compiles trait equations, small HCL expressions over
// trait names such as `fitness * 2 + abs(bonus)`, and preprocesses `${}`
// templates in configuration strings.
package equation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/evogrid/internal/trait"
)

// ErrSyntax wraps parse failures.
var ErrSyntax = errors.New("invalid equation")

// Equation is a compiled trait equation bound to one layout.
type Equation struct {
	src    string
	expr   hcl.Expression
	layout *trait.Layout
	names  []string
	ids    []int
}

// Parse parses src without binding it to a layout.
func Parse(src string) (hcl.Expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "equation", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w %q: %s", ErrSyntax, src, diags.Error())
	}
	return expr, nil
}

// Names returns the trait names referenced by src, sorted.
func Names(src string) ([]string, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return references(expr), nil
}

// Compile parses src and resolves every referenced name against layout.
func Compile(layout *trait.Layout, src string) (*Equation, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	funcs := Functions()
	for _, fn := range calledFunctions(expr) {
		if _, ok := funcs[fn]; !ok {
			return nil, fmt.Errorf("%w %q: unknown function %q", ErrSyntax, src, fn)
		}
	}
	eq := &Equation{src: strings.TrimSpace(src), expr: expr, layout: layout, names: references(expr)}
	for _, name := range eq.names {
		id, ok := layout.ID(name)
		if !ok {
			return nil, fmt.Errorf("equation %q: %w %q", src, trait.ErrUnknown, name)
		}
		eq.ids = append(eq.ids, id)
	}
	return eq, nil
}

// MustCompile is Compile for equations known to be valid.
func MustCompile(layout *trait.Layout, src string) *Equation {
	eq, err := Compile(layout, src)
	if err != nil {
		panic(err)
	}
	return eq
}

func (e *Equation) String() string  { return e.src }
func (e *Equation) Names() []string { return append([]string(nil), e.names...) }

// TraitName returns the trait when the equation is a single bare name.
func (e *Equation) TraitName() (string, bool) {
	if len(e.names) == 1 && e.names[0] == e.src {
		return e.src, true
	}
	return "", false
}

// Type returns the result type when the equation is a bare trait name and
// cty.Number otherwise.
func (e *Equation) Type() cty.Type {
	if name, ok := e.TraitName(); ok {
		t, _ := e.layout.Type(name)
		return t
	}
	return cty.Number
}

// Eval evaluates the equation against one organism's traits.
func (e *Equation) Eval(s *trait.Store) (cty.Value, error) {
	if s == nil {
		return cty.NilVal, fmt.Errorf("equation %q: organism has no traits", e.src)
	}
	if !s.SameLayout(e.layout) {
		return cty.NilVal, fmt.Errorf("equation %q: store built from a different layout", e.src)
	}
	vars := make(map[string]cty.Value, len(e.ids))
	for i, id := range e.ids {
		vars[e.names[i]] = s.Get(id)
	}
	v, diags := e.expr.Value(&hcl.EvalContext{Variables: vars, Functions: Functions()})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("equation %q: %s", e.src, diags.Error())
	}
	return v, nil
}

// Float evaluates to a number. Bools count as 0 or 1.
func (e *Equation) Float(s *trait.Store) (float64, error) {
	v, err := e.Eval(s)
	if err != nil {
		return 0, err
	}
	if v.Type() == cty.String {
		if v, err = convert.Convert(v, cty.Number); err != nil {
			return 0, fmt.Errorf("equation %q: %w", e.src, err)
		}
	}
	return trait.ToFloat(v)
}

// Bool evaluates to a bool. Numbers are true when non-zero.
func (e *Equation) Bool(s *trait.Store) (bool, error) {
	v, err := e.Eval(s)
	if err != nil {
		return false, err
	}
	if v.Type() == cty.Bool && v.IsKnown() && !v.IsNull() {
		return v.True(), nil
	}
	f, err := trait.ToFloat(v)
	if err != nil {
		return false, fmt.Errorf("equation %q: %w", e.src, err)
	}
	return f != 0, nil
}

// Text evaluates and renders the result as a string.
func (e *Equation) Text(s *trait.Store) (string, error) {
	v, err := e.Eval(s)
	if err != nil {
		return "", err
	}
	return trait.Format(v), nil
}
