package trait

import (
	"github.com/zclconf/go-cty/cty"
)

// Claim is one module's declared use of a trait.
type Claim struct {
	Module string
	Access Access
	Type   cty.Type
}

// Info gathers every claim made on a single trait name.
type Info struct {
	name       string
	desc       string
	typ        cty.Type
	def        cty.Value
	hasDefault bool
	init       Init
	archive    Archive
	claims     []Claim
}

func (i *Info) Name() string     { return i.name }
func (i *Info) Desc() string     { return i.desc }
func (i *Info) Type() cty.Type   { return i.typ }
func (i *Info) Init() Init       { return i.init }
func (i *Info) Archive() Archive { return i.archive }
func (i *Info) HasDefault() bool { return i.hasDefault }
func (i *Info) Claims() []Claim  { return append([]Claim(nil), i.claims...) }
func (i *Info) ModuleCount() int { return len(i.claims) }
func (i *Info) IsPrivate() bool  { return i.AccessCount(Private) > 0 }
func (i *Info) IsRequired() bool { return i.AccessCount(Required) > 0 }
func (i *Info) IsOptionalOnly() bool {
	return len(i.claims) > 0 && i.AccessCount(Optional) == len(i.claims)
}

// Default returns the default value, or the zero value of the trait type.
func (i *Info) Default() cty.Value {
	if i.hasDefault {
		return i.def
	}
	return ZeroValue(i.typ)
}

// SetDesc replaces the trait description.
func (i *Info) SetDesc(desc string) *Info { i.desc = desc; return i }

// SetDefault replaces the default value.
func (i *Info) SetDefault(v cty.Value) *Info {
	i.def = v
	i.hasDefault = true
	return i
}

// SetInit selects how offspring initialize this trait.
func (i *Info) SetInit(init Init) *Info { i.init = init; return i }

// SetArchive selects which older values are stored with the trait.
func (i *Info) SetArchive(a Archive) *Info { i.archive = a; return i }

// Access returns the access mode used by module, or Unknown.
func (i *Info) Access(module string) Access {
	for _, c := range i.claims {
		if c.Module == module {
			return c.Access
		}
	}
	return Unknown
}

// HasAccess reports whether module claimed this trait.
func (i *Info) HasAccess(module string) bool { return i.Access(module) != Unknown }

// AccessCount returns how many claims use the given access mode.
func (i *Info) AccessCount(a Access) int {
	n := 0
	for _, c := range i.claims {
		if c.Access == a {
			n++
		}
	}
	return n
}

// ModuleNames returns the claiming modules, optionally limited to the given
// access modes.
func (i *Info) ModuleNames(filter ...Access) []string {
	var out []string
	for _, c := range i.claims {
		if len(filter) == 0 || containsAccess(filter, c.Access) {
			out = append(out, c.Module)
		}
	}
	return out
}

func containsAccess(list []Access, a Access) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}
