package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ApplySet applies command-line `--set` statements of the form
// `name=value`. The name is random_seed, updates, `<population>.size`, or
// `<module>.<attribute>`. Values are HCL literals; anything else is taken
// as a plain string.
func (m *Model) ApplySet(stmts []string) hcl.Diagnostics {
	var diags hcl.Diagnostics
	perModule := make(map[string][]string)
	var moduleOrder []string

	for _, stmt := range stmts {
		name, value, ok := strings.Cut(stmt, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" {
			diags = append(diags, setError(stmt, "expected name=value"))
			continue
		}
		if expr, perr := hclsyntax.ParseExpression([]byte(value), "--set", hcl.Pos{Line: 1, Column: 1}); perr.HasErrors() || len(expr.Variables()) > 0 {
			value = strconv.Quote(value)
		}

		target, attr, dotted := strings.Cut(name, ".")
		switch {
		case !dotted && name == "random_seed":
			var seed int64
			if err := decodeLiteral(value, &seed); err != nil {
				diags = append(diags, setError(stmt, err.Error()))
				continue
			}
			m.Seed = seed
		case !dotted && name == "updates":
			var n uint64
			if err := decodeLiteral(value, &n); err != nil {
				diags = append(diags, setError(stmt, err.Error()))
				continue
			}
			m.Updates = n
		case !dotted:
			diags = append(diags, setError(stmt, "unknown setting "+strconv.Quote(name)))
		case attr == "size":
			if pop, ok := m.Population(target); ok {
				if err := decodeLiteral(value, &pop.Size); err != nil {
					diags = append(diags, setError(stmt, err.Error()))
				}
				continue
			}
			fallthrough
		default:
			if _, ok := perModule[target]; !ok {
				moduleOrder = append(moduleOrder, target)
			}
			perModule[target] = append(perModule[target], attr+" = "+value)
		}
	}

	for _, target := range moduleOrder {
		if !m.hasModule(target) {
			diags = append(diags, setError(target, "no module named "+strconv.Quote(target)))
			continue
		}
		src := strings.Join(perModule[target], "\n") + "\n"
		f, fileDiags := hclsyntax.ParseConfig([]byte(src), "--set "+target, hcl.Pos{Line: 1, Column: 1})
		diags = append(diags, fileDiags...)
		if fileDiags.HasErrors() {
			continue
		}
		m.Overrides[target] = f.Body
	}
	return diags
}

func (m *Model) hasModule(name string) bool {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return true
		}
	}
	return false
}

func decodeLiteral(src string, target any) error {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "--set", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return diags
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if v.Type() == cty.String {
		n, err := cty.ParseNumberVal(v.AsString())
		if err != nil {
			return fmt.Errorf("%q is not a number", v.AsString())
		}
		v = n
	}
	return gocty.FromCtyValue(v, target)
}

func setError(stmt, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid --set statement",
		Detail:   fmt.Sprintf("%s: %s", stmt, detail),
	}
}
