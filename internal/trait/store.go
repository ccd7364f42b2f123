package trait

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Store is the fixed-layout block of trait values owned by one organism.
type Store struct {
	layout *Layout
	values []cty.Value
}

// Layout returns the layout this store was built from.
func (s *Store) Layout() *Layout { return s.layout }

// SameLayout reports whether the store was built from l.
func (s *Store) SameLayout(l *Layout) bool { return s.layout == l }

// Reset sets every slot back to its default.
func (s *Store) Reset() {
	for i, slot := range s.layout.slots {
		s.values[i] = slot.Default
	}
}

// Clone returns an independent copy. cty values are immutable, so copying
// the slice is enough.
func (s *Store) Clone() *Store {
	return &Store{layout: s.layout, values: append([]cty.Value(nil), s.values...)}
}

// Get returns the value in slot id.
func (s *Store) Get(id int) cty.Value { return s.values[id] }

// Set stores v in slot id. The value's type must equal the slot type.
func (s *Store) Set(id int, v cty.Value) error {
	if id < 0 || id >= len(s.values) {
		return fmt.Errorf("slot %d: %w", id, ErrUnknown)
	}
	slot := s.layout.slots[id]
	if v == cty.NilVal || !v.Type().Equals(slot.Type) {
		return fmt.Errorf("trait %q: %w: want %s, got %s", slot.Name, ErrType, slot.Type.FriendlyName(), typeName(v))
	}
	s.values[id] = v
	return nil
}

// Lookup returns the value of a named trait.
func (s *Store) Lookup(name string) (cty.Value, error) {
	id, ok := s.layout.ID(name)
	if !ok {
		return cty.NilVal, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return s.values[id], nil
}

// SetNamed stores v in the named trait.
func (s *Store) SetNamed(name string, v cty.Value) error {
	id, ok := s.layout.ID(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return s.Set(id, v)
}

// Float returns a numeric slot as float64.
func (s *Store) Float(id int) (float64, error) {
	f, err := ToFloat(s.values[id])
	if err != nil {
		return 0, fmt.Errorf("trait %q: %w", s.layout.slots[id].Name, err)
	}
	return f, nil
}

// SetFloat stores a float64 in a number slot.
func (s *Store) SetFloat(id int, f float64) error {
	return s.Set(id, cty.NumberFloatVal(f))
}

// String returns the value of a string slot.
func (s *Store) String(id int) (string, error) {
	v := s.values[id]
	if v.Type() != cty.String {
		return "", fmt.Errorf("trait %q: %w: not a string", s.layout.slots[id].Name, ErrType)
	}
	return v.AsString(), nil
}

// Values returns the slot values as a name-keyed map, suitable as HCL
// evaluation variables.
func (s *Store) Values() map[string]cty.Value {
	out := make(map[string]cty.Value, len(s.values))
	for i, slot := range s.layout.slots {
		out[slot.Name] = s.values[i]
	}
	return out
}

func typeName(v cty.Value) string {
	if v == cty.NilVal {
		return "nothing"
	}
	return v.Type().FriendlyName()
}
