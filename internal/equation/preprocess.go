package equation

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Preprocess replaces each `${expr}` in src with expr evaluated in ctx.
// `$${` produces a literal `${`. Strings without `${` are returned as is.
func Preprocess(src string, ctx *hcl.EvalContext) (string, error) {
	if !strings.Contains(src, "${") && !strings.Contains(src, "%{") {
		return src, nil
	}
	tmpl, diags := hclsyntax.ParseTemplate([]byte(src), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", fmt.Errorf("preprocess %q: %s", src, diags.Error())
	}
	v, diags := tmpl.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("preprocess %q: %s", src, diags.Error())
	}
	v, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("preprocess %q: %w", src, err)
	}
	if v.IsNull() {
		return "", nil
	}
	return v.AsString(), nil
}
