package trait

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// Slot is one entry of a Layout.
type Slot struct {
	ID      int
	Name    string
	Type    cty.Type
	Default cty.Value
	Init    Init
	Archive Archive
	// Source is the slot an archive companion copies from, or -1.
	Source int
}

// Layout is the ordered set of trait slots shared by every organism of a
// run. It can only grow until Lock is called.
type Layout struct {
	slots  []Slot
	index  map[string]int
	locked bool
}

// NewLayout returns an empty, unlocked layout.
func NewLayout() *Layout {
	return &Layout{index: make(map[string]int)}
}

// Add appends a slot with a default value. Adding an existing name with
// the same type returns the existing id.
func (l *Layout) Add(name string, typ cty.Type, def cty.Value) (int, error) {
	return l.add(Slot{Name: name, Type: typ, Default: def, Source: -1})
}

func (l *Layout) add(s Slot) (int, error) {
	if l.locked {
		return -1, fmt.Errorf("adding slot %q: %w", s.Name, ErrLocked)
	}
	if id, ok := l.index[s.Name]; ok {
		if !l.slots[id].Type.Equals(s.Type) {
			return -1, fmt.Errorf("slot %q: %w: have %s, got %s", s.Name, ErrType,
				l.slots[id].Type.FriendlyName(), s.Type.FriendlyName())
		}
		return id, nil
	}
	if s.Default == cty.NilVal || s.Default.IsNull() {
		s.Default = ZeroValue(s.Type)
	}
	if !s.Default.Type().Equals(s.Type) {
		return -1, fmt.Errorf("slot %q default: %w: want %s, got %s", s.Name, ErrType,
			s.Type.FriendlyName(), s.Default.Type().FriendlyName())
	}
	s.ID = len(l.slots)
	l.slots = append(l.slots, s)
	l.index[s.Name] = s.ID
	return s.ID, nil
}

// Lock freezes the layout. It cannot be undone.
func (l *Layout) Lock() { l.locked = true }

// Locked reports whether the layout is frozen.
func (l *Layout) Locked() bool { return l.locked }

// Len returns the number of slots.
func (l *Layout) Len() int { return len(l.slots) }

// ID returns the slot id for a name.
func (l *Layout) ID(name string) (int, bool) {
	id, ok := l.index[name]
	return id, ok
}

// Has reports whether a slot with this name exists.
func (l *Layout) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Slot returns the slot with the given id.
func (l *Layout) Slot(id int) Slot { return l.slots[id] }

// Slots returns a copy of all slots in id order.
func (l *Layout) Slots() []Slot { return append([]Slot(nil), l.slots...) }

// Names returns slot names in id order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.slots))
	for i, s := range l.slots {
		names[i] = s.Name
	}
	return names
}

// Type returns the type of a named slot.
func (l *Layout) Type(name string) (cty.Type, bool) {
	id, ok := l.index[name]
	if !ok {
		return cty.NilType, false
	}
	return l.slots[id].Type, true
}

// IsNumeric reports whether the named slot holds a number or bool.
func (l *Layout) IsNumeric(name string) bool {
	t, ok := l.Type(name)
	return ok && IsNumeric(t)
}

// NewStore returns a store with every slot at its default. Stores may only
// be built from a locked layout.
func (l *Layout) NewStore() *Store {
	if !l.locked {
		panic("trait: NewStore called on an unlocked layout")
	}
	s := &Store{layout: l, values: make([]cty.Value, len(l.slots))}
	s.Reset()
	return s
}

// Inherit initializes a newborn's store from its parents according to each
// slot's Init policy. Archive companions start at their defaults.
func (l *Layout) Inherit(child *Store, parents ...*Store) {
	for _, slot := range l.slots {
		if slot.Source >= 0 {
			child.values[slot.ID] = slot.Default
			continue
		}
		child.values[slot.ID] = l.inherited(slot, parents)
	}
}

// RecordBirth stores AT_BIRTH archives on an organism that has just been
// placed.
func (l *Layout) RecordBirth(s *Store) {
	l.record(s, ArchiveAtBirth)
}

func (l *Layout) inherited(slot Slot, parents []*Store) cty.Value {
	if len(parents) == 0 || slot.Init == InitDefault {
		return slot.Default
	}
	if slot.Init == InitFirst || !IsNumeric(slot.Type) || slot.Type == cty.Bool {
		return parents[0].values[slot.ID]
	}

	var total, low, high float64
	for i, p := range parents {
		f, err := ToFloat(p.values[slot.ID])
		if err != nil {
			return slot.Default
		}
		total += f
		if i == 0 || f < low {
			low = f
		}
		if i == 0 || f > high {
			high = f
		}
	}
	switch slot.Init {
	case InitAverage:
		// Parents at +Inf and -Inf have no average.
		if avg := total / float64(len(parents)); !math.IsNaN(avg) {
			return cty.NumberFloatVal(avg)
		}
	case InitMinimum:
		return cty.NumberFloatVal(low)
	case InitMaximum:
		return cty.NumberFloatVal(high)
	}
	return slot.Default
}

// RecordRepro stores LAST_REPRO archives on a parent that is about to
// reproduce.
func (l *Layout) RecordRepro(parent *Store) {
	l.record(parent, ArchiveLastRepro)
}

func (l *Layout) record(s *Store, a Archive) {
	if s == nil || s.layout != l {
		return
	}
	for _, slot := range l.slots {
		if slot.Source >= 0 && slot.Archive == a {
			s.values[slot.ID] = s.values[slot.Source]
		}
	}
}
