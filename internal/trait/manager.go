package trait

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrLocked is returned when the schema is changed after it was locked.
	ErrLocked = errors.New("trait schema is locked")
	// ErrVerify is returned by RegisterAll when the claims did not verify.
	ErrVerify = errors.New("trait claims failed verification")
	// ErrType is returned when a value does not match the slot type.
	ErrType = errors.New("trait type mismatch")
	// ErrUnknown is returned when a trait name is not in the layout.
	ErrUnknown = errors.New("unknown trait")
)

// Reporter receives configuration errors found during verification.
type Reporter interface {
	AddError(format string, args ...any)
}

// Manager collects trait claims from modules and turns them into a Layout.
type Manager struct {
	reporter Reporter
	traits   map[string]*Info
	order    []string
	locked   bool
	verified bool
	failed   bool
	layout   *Layout
}

// NewManager creates an empty, unlocked manager.
func NewManager(r Reporter) *Manager {
	return &Manager{reporter: r, traits: make(map[string]*Info)}
}

// AddTrait records that module uses trait name with the given access.
// The first description and the first writer-supplied default win.
func (m *Manager) AddTrait(module string, access Access, name, desc string, typ cty.Type, def cty.Value) (*Info, error) {
	if m.locked {
		return nil, fmt.Errorf("module %q adding trait %q: %w", module, name, ErrLocked)
	}
	if name == "" {
		return nil, fmt.Errorf("module %q: trait name must not be empty", module)
	}
	if typ == cty.NilType {
		return nil, fmt.Errorf("module %q: trait %q has no type", module, name)
	}

	info, ok := m.traits[name]
	if !ok {
		info = &Info{name: name, typ: typ}
		m.traits[name] = info
		m.order = append(m.order, name)
	}
	info.claims = append(info.claims, Claim{Module: module, Access: access, Type: typ})
	if info.desc == "" {
		info.desc = desc
	}
	if !info.hasDefault && access.Writes() && def != cty.NilVal && !def.IsNull() {
		if def.Type().Equals(typ) {
			info.def = def
			info.hasDefault = true
		}
	}
	m.verified = false
	return info, nil
}

// Get returns the claims for a trait name.
func (m *Manager) Get(name string) (*Info, bool) {
	info, ok := m.traits[name]
	return info, ok
}

// Len returns the number of distinct trait names claimed.
func (m *Manager) Len() int { return len(m.order) }

// Names returns trait names in first-claim order.
func (m *Manager) Names() []string { return append([]string(nil), m.order...) }

// Lock freezes the manager and the layout it registered into. There is no
// way back: a locked schema stays locked.
func (m *Manager) Lock() {
	m.locked = true
	if m.layout != nil {
		m.layout.Lock()
	}
}

// Locked reports whether the manager rejects new claims.
func (m *Manager) Locked() bool { return m.locked }

// Verify checks every trait for conflicting claims. All problems are
// reported before it returns; the result is true when there were none.
func (m *Manager) Verify() bool {
	ok := true
	for _, name := range m.order {
		for _, problem := range verifyTrait(m.traits[name]) {
			m.reporter.AddError("%s", problem)
			ok = false
		}
	}
	m.verified = true
	m.failed = !ok
	return ok
}

func verifyTrait(info *Info) []string {
	var problems []string
	name := info.name

	seen := make(map[string]bool, len(info.claims))
	for _, c := range info.claims {
		if seen[c.Module] {
			problems = append(problems, fmt.Sprintf("trait %q is claimed more than once by module %q", name, c.Module))
		}
		seen[c.Module] = true
		if c.Access == Unknown {
			problems = append(problems, fmt.Sprintf("trait %q has unknown access in module %q", name, c.Module))
		}
		if !c.Type.Equals(info.typ) {
			problems = append(problems, fmt.Sprintf("trait %q type mismatch: module %q uses %s but module %q uses %s",
				name, info.claims[0].Module, info.typ.FriendlyName(), c.Module, c.Type.FriendlyName()))
		}
	}

	if info.IsPrivate() && len(info.claims) > 1 {
		problems = append(problems, fmt.Sprintf("trait %q is private to module(s) %s but also used by %s",
			name, quoteList(info.ModuleNames(Private)), quoteList(info.ModuleNames(Owned, Shared, Required, Generated, Optional))))
	}

	exclusive := info.AccessCount(Owned) + info.AccessCount(Generated)
	writers := exclusive + info.AccessCount(Shared)
	if exclusive > 0 && writers > 1 {
		problems = append(problems, fmt.Sprintf("trait %q may only be written by one module but is written by %s",
			name, quoteList(info.ModuleNames(Owned, Generated, Shared))))
	}

	if info.IsRequired() && writers == 0 {
		problems = append(problems, fmt.Sprintf("trait %q is required by module(s) %s but no module produces it",
			name, quoteList(info.ModuleNames(Required))))
	}

	if info.AccessCount(Generated) > 0 {
		readers := info.AccessCount(Required) + info.AccessCount(Optional) + info.AccessCount(Shared)
		if readers == 0 {
			problems = append(problems, fmt.Sprintf("trait %q is generated by module(s) %s but no module reads it",
				name, quoteList(info.ModuleNames(Generated))))
		}
	}
	return problems
}

// RegisterAll allocates one slot per verified trait name in layout. Traits
// claimed only as OPTIONAL have no producer and are skipped.
func (m *Manager) RegisterAll(layout *Layout) error {
	if !m.verified {
		m.Verify()
	}
	if m.failed {
		return ErrVerify
	}
	for _, name := range m.order {
		info := m.traits[name]
		if info.IsOptionalOnly() {
			continue
		}
		if _, err := layout.add(Slot{
			Name:    info.name,
			Type:    info.typ,
			Default: info.Default(),
			Init:    info.init,
			Archive: info.archive,
			Source:  -1,
		}); err != nil {
			return err
		}
	}
	for _, name := range m.order {
		info := m.traits[name]
		prefix := info.archive.Prefix()
		if prefix == "" || info.IsOptionalOnly() {
			continue
		}
		src, _ := layout.ID(info.name)
		if _, err := layout.add(Slot{
			Name:    prefix + info.name,
			Type:    info.typ,
			Default: info.Default(),
			Source:  src,
			Archive: info.archive,
		}); err != nil {
			return err
		}
	}
	m.layout = layout
	return nil
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
