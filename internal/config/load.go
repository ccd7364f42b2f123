package config

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/evogrid/internal/ctxlog"
	"github.com/vk/evogrid/internal/fsutil"
)

type fileSchema struct {
	Seed        *int64         `hcl:"random_seed,optional"`
	Populations []*popBlock    `hcl:"population,block"`
	Modules     []*moduleBlock `hcl:"module,block"`
	Events      []*eventBlock  `hcl:"event,block"`
	Runs        []*runBlock    `hcl:"run,block"`
}

type popBlock struct {
	Name string `hcl:"name,label"`
	Size int    `hcl:"size,optional"`
}

type moduleBlock struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type eventBlock struct {
	Kind    string         `hcl:"kind,label"`
	Start   *uint64        `hcl:"start,optional"`
	Every   uint64         `hcl:"every,optional"`
	Stop    uint64         `hcl:"stop,optional"`
	Print   hcl.Expression `hcl:"print,optional"`
	Exit    bool           `hcl:"exit,optional"`
	Injects []*Inject      `hcl:"inject,block"`
	Copies  []*PopPair     `hcl:"copy,block"`
	Moves   []*PopPair     `hcl:"move,block"`
	Resizes []*Resize      `hcl:"resize,block"`
}

type runBlock struct {
	Updates uint64 `hcl:"updates,optional"`
}

// Load reads every .hcl file under the given paths (files or directories)
// and merges them into one Model in path order. All diagnostics are
// returned together.
func Load(ctx context.Context, paths ...string) (*Model, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "Cannot read run script", Detail: err.Error()}}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := fsutil.FindFilesByExtension(p, ".hcl")
		if err != nil {
			return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "Cannot walk directory", Detail: err.Error()}}
		}
		files = append(files, found...)
	}
	logger.Debug("Found run scripts.", "files", files)

	parser := hclparse.NewParser()
	model := newModel()
	var diags hcl.Diagnostics
	for _, filename := range files {
		f, fileDiags := parser.ParseHCLFile(filename)
		diags = append(diags, fileDiags...)
		if fileDiags.HasErrors() {
			continue
		}
		diags = append(diags, model.merge(filename, f)...)
	}
	model.Files = parser.Files()
	logger.Debug("Run scripts loaded.", "populations", len(model.Populations), "modules", len(model.Modules), "events", len(model.Events))
	return model, diags
}

// Parse loads a single in-memory script. It is used by tests and by
// Generate's round trip.
func Parse(filename string, src []byte) (*Model, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	model := newModel()
	diags = append(diags, model.merge(filename, f)...)
	model.Files = parser.Files()
	return model, diags
}

func newModel() *Model {
	return &Model{Overrides: make(map[string]hcl.Body), Files: make(map[string]*hcl.File)}
}

func (m *Model) merge(filename string, f *hcl.File) hcl.Diagnostics {
	var schema fileSchema
	diags := gohcl.DecodeBody(f.Body, nil, &schema)
	if diags.HasErrors() {
		return diags
	}
	if schema.Seed != nil {
		m.Seed = *schema.Seed
	}
	for _, r := range schema.Runs {
		m.Updates = r.Updates
	}

	content, _ := f.Body.Content(blockSchema)
	ranges := make(map[string][]*hcl.Block)
	for _, b := range content.Blocks {
		ranges[b.Type] = append(ranges[b.Type], b)
	}

	for i, p := range schema.Populations {
		if _, dup := m.Population(p.Name); dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate population",
				Detail:   fmt.Sprintf("Population %q is declared more than once.", p.Name),
				Subject:  ranges["population"][i].DefRange.Ptr(),
			})
			continue
		}
		m.Populations = append(m.Populations, &Population{Name: p.Name, Size: p.Size, Range: ranges["population"][i].DefRange})
	}
	for i, mb := range schema.Modules {
		m.Modules = append(m.Modules, &Module{Type: mb.Type, Name: mb.Name, Body: mb.Body, Range: ranges["module"][i].DefRange})
	}
	for i, eb := range schema.Events {
		block := ranges["event"][i]
		switch eb.Kind {
		case "start", "update", "exit":
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown event kind",
				Detail:   fmt.Sprintf("Event kind %q must be one of start, update or exit.", eb.Kind),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}
		ev := &Event{
			Kind:    eb.Kind,
			Every:   eb.Every,
			Stop:    eb.Stop,
			Print:   eb.Print,
			Exit:    eb.Exit,
			Injects: eb.Injects,
			Copies:  eb.Copies,
			Moves:   eb.Moves,
			Resizes: eb.Resizes,
			Range:   block.DefRange,
			Source:  sourceOf(f, block),
		}
		if eb.Kind == "update" && ev.Every == 0 {
			ev.Every = 1
		}
		if eb.Start != nil {
			ev.Start = *eb.Start
		} else if eb.Kind == "update" {
			ev.Start = ev.Every
		}
		for _, in := range ev.Injects {
			if in.Count == 0 {
				in.Count = 1
			}
		}
		m.Events = append(m.Events, ev)
	}
	return diags
}

var blockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "random_seed"}},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "population", LabelNames: []string{"name"}},
		{Type: "module", LabelNames: []string{"type", "name"}},
		{Type: "event", LabelNames: []string{"kind"}},
		{Type: "run"},
	},
}

// sourceOf returns the text of block, from its type keyword to its closing
// brace.
func sourceOf(f *hcl.File, block *hcl.Block) []byte {
	body, ok := block.Body.(interface{ Range() hcl.Range })
	if !ok {
		return nil
	}
	end := body.Range().End.Byte
	start := block.TypeRange.Start.Byte
	if start < 0 || end > len(f.Bytes) || start >= end {
		return nil
	}
	return append([]byte(nil), f.Bytes[start:end]...)
}

// HasPrint reports whether the event has a print attribute.
func (e *Event) HasPrint() bool {
	if e.Print == nil {
		return false
	}
	v, diags := e.Print.Value(nil)
	return diags.HasErrors() || !v.IsNull()
}
