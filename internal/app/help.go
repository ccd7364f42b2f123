package app

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/vk/evogrid/internal/query"
)

func (a *App) listModules() {
	for _, typ := range a.registry.Types() {
		e, _ := a.registry.Lookup(typ)
		fmt.Fprintf(a.outW, "%-18s %s\n", e.Type, e.Desc)
	}
}

// help prints the topic's documentation. Topics are module types and
// "filters"; an empty topic lists them all.
func (a *App) help(topic string) error {
	if topic == "" {
		fmt.Fprintln(a.outW, "Help topics: filters, "+strings.Join(a.registry.Types(), ", "))
		return nil
	}
	if topic == "filters" {
		fmt.Fprintln(a.outW, "Trait summary filters: "+strings.Join(query.Keywords(), ", "))
		fmt.Fprintln(a.outW, "A number selects one organism by index; \"OP value\" counts matches (OP is one of == != < <= > >=).")
		return nil
	}

	e, ok := a.registry.Lookup(topic)
	if !ok {
		return fmt.Errorf("unknown help topic %q", topic)
	}
	fmt.Fprintf(a.outW, "%s: %s\n", e.Type, e.Desc)
	if e.NewInput == nil {
		return nil
	}
	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("module", []string{e.Type, "example"})
	gohcl.EncodeIntoBody(e.NewInput(), block.Body())
	fmt.Fprintf(a.outW, "\n%s", hclwrite.Format(f.Bytes()))
	return nil
}
