package config

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Settings returns the decoded settings of a module, keyed by name. It is
// the only thing Generate needs from the module registry.
type Settings func(mod *Module) (any, bool)

// Generate writes the effective configuration as HCL: run settings,
// populations, every module with its decoded settings (defaults included),
// and the original event blocks.
func (m *Model) Generate(settings Settings) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	root.SetAttributeValue("random_seed", cty.NumberIntVal(m.Seed))
	root.AppendNewline()

	for _, p := range m.Populations {
		block := root.AppendNewBlock("population", []string{p.Name})
		block.Body().SetAttributeValue("size", cty.NumberIntVal(int64(p.Size)))
	}
	if len(m.Populations) > 0 {
		root.AppendNewline()
	}

	for _, mod := range m.Modules {
		block := root.AppendNewBlock("module", []string{mod.Type, mod.Name})
		if input, ok := settings(mod); ok && input != nil {
			gohcl.EncodeIntoBody(input, block.Body())
		}
		root.AppendNewline()
	}

	for _, ev := range m.Events {
		if len(ev.Source) == 0 {
			continue
		}
		parsed, diags := hclwrite.ParseConfig(ev.Source, "event", ev.Range.Start)
		if diags.HasErrors() {
			continue
		}
		for _, block := range parsed.Body().Blocks() {
			root.AppendBlock(block)
		}
		root.AppendNewline()
	}

	run := root.AppendNewBlock("run", nil)
	run.Body().SetAttributeValue("updates", cty.NumberUIntVal(m.Updates))
	return hclwrite.Format(f.Bytes())
}
