package population

import (
	"fmt"

	"github.com/vk/evogrid/internal/organism"
)

// Position refers to one slot of one population. It is a cheap value that
// does not own the organism it points at. A valid position may be empty.
type Position struct {
	pop   *Population
	index int
}

// At returns the position of slot index in pop.
func At(pop *Population, index int) Position { return Position{pop: pop, index: index} }

func (p Position) Pop() *Population { return p.pop }
func (p Position) Index() int       { return p.index }

// PopID returns the population id, or -1 for a position with no population.
func (p Position) PopID() int {
	if p.pop == nil {
		return -1
	}
	return p.pop.id
}

// IsValid reports whether the position names an existing slot.
func (p Position) IsValid() bool {
	return p.pop != nil && p.index >= 0 && p.index < len(p.pop.slots)
}

// IsOccupied reports whether the slot holds a real organism.
func (p Position) IsOccupied() bool { return p.IsValid() && !p.pop.slots[p.index].IsEmpty() }

// IsEmpty reports whether the slot is missing or holds the sentinel.
func (p Position) IsEmpty() bool { return !p.IsOccupied() }

// InPop reports whether the position belongs to pop.
func (p Position) InPop(pop *Population) bool { return p.pop == pop }

// Org returns the occupant, or nil for an invalid position.
func (p Position) Org() organism.Organism {
	if !p.IsValid() {
		return nil
	}
	return p.pop.slots[p.index]
}

func (p Position) String() string {
	if p.pop == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s[%d]", p.pop.name, p.index)
}
