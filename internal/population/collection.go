package population

import (
	"slices"
	"strconv"
	"strings"

	"github.com/vk/evogrid/internal/organism"
)

// Collection is an ordered set of positions that may span populations.
// Inserting a position twice keeps the first occurrence only. Collections
// are values: a copy can be changed without affecting the original.
type Collection struct {
	positions []Position
	// addr is the collection allowed to append into positions in place.
	// A copy sees a different address and reallocates before it grows.
	addr *Collection
}

// NewCollection builds a collection from explicit positions.
func NewCollection(positions ...Position) Collection {
	var c Collection
	c.insertAll(positions)
	return c
}

// FromPopulation builds a collection holding every slot of pop.
func FromPopulation(pop *Population) Collection {
	var c Collection
	c.InsertPop(pop)
	return c
}

func (c *Collection) own() {
	if c.addr != c {
		c.positions = slices.Clip(c.positions)
		c.addr = c
	}
}

// insertAll adds the valid positions of ps that are not yet present.
func (c *Collection) insertAll(ps []Position) {
	if len(ps) == 0 {
		return
	}
	c.own()
	seen := make(map[Position]struct{}, len(c.positions)+len(ps))
	for _, pos := range c.positions {
		seen[pos] = struct{}{}
	}
	for _, pos := range ps {
		if !pos.IsValid() {
			continue
		}
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		c.positions = append(c.positions, pos)
	}
}

// Insert adds pos. Invalid positions are ignored.
func (c *Collection) Insert(pos Position) {
	if !pos.IsValid() || c.Has(pos) {
		return
	}
	c.own()
	c.positions = append(c.positions, pos)
}

// InsertPop adds every slot of pop.
func (c *Collection) InsertPop(pop *Population) {
	ps := make([]Position, len(pop.slots))
	for i := range pop.slots {
		ps[i] = Position{pop: pop, index: i}
	}
	c.insertAll(ps)
}

// InsertCollection adds every position of other.
func (c *Collection) InsertCollection(other Collection) {
	c.insertAll(other.positions)
}

// Has reports whether pos is in the collection.
func (c Collection) Has(pos Position) bool {
	return slices.Contains(c.positions, pos)
}

// Len returns the number of positions.
func (c Collection) Len() int { return len(c.positions) }

// IsEmpty reports whether the collection has no positions.
func (c Collection) IsEmpty() bool { return len(c.positions) == 0 }

// At returns the i-th position in insertion order.
func (c Collection) At(i int) Position { return c.positions[i] }

// Positions returns a copy of the positions in insertion order.
func (c Collection) Positions() []Position { return append([]Position(nil), c.positions...) }

// NumOrgs counts occupied positions.
func (c Collection) NumOrgs() int {
	n := 0
	for _, pos := range c.positions {
		if pos.IsOccupied() {
			n++
		}
	}
	return n
}

// Occupied returns the occupied positions in insertion order.
func (c Collection) Occupied() []Position {
	var out []Position
	for _, pos := range c.positions {
		if pos.IsOccupied() {
			out = append(out, pos)
		}
	}
	return out
}

// Orgs returns the living organisms in insertion order.
func (c Collection) Orgs() []organism.Organism {
	var out []organism.Organism
	for _, pos := range c.positions {
		if pos.IsOccupied() {
			out = append(out, pos.Org())
		}
	}
	return out
}

// RemoveEmpty drops every position that does not hold a living organism.
func (c *Collection) RemoveEmpty() {
	kept := make([]Position, 0, len(c.positions))
	for _, pos := range c.positions {
		if pos.IsOccupied() {
			kept = append(kept, pos)
		}
	}
	c.positions = kept
	c.addr = c
}

// Populations returns each population referenced, in first-seen order.
func (c Collection) Populations() []*Population {
	var out []*Population
	seen := make(map[*Population]bool)
	for _, pos := range c.positions {
		if !seen[pos.pop] {
			seen[pos.pop] = true
			out = append(out, pos.pop)
		}
	}
	return out
}

// String lists whole populations by name and partial ones as name[i,j].
func (c Collection) String() string {
	var parts []string
	for _, pop := range c.Populations() {
		var idx []string
		for _, pos := range c.positions {
			if pos.pop == pop {
				idx = append(idx, strconv.Itoa(pos.index))
			}
		}
		if len(idx) == pop.Size() {
			parts = append(parts, pop.name)
			continue
		}
		parts = append(parts, pop.name+"["+strings.Join(idx, ",")+"]")
	}
	return strings.Join(parts, ",")
}
