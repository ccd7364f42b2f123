// Package population holds the ordered slots organisms live in, the
// Position values that refer to those slots, and Collections of positions.
//
// The mutating methods on Population (Install, Remove, Swap, Resize) do not
// fire lifecycle signals. They are the low-level half of the controller's
// AddOrgAt, ClearOrgAt, SwapOrgs and ResizePop; modules should call those
// instead.
package population

import (
	"fmt"

	"github.com/vk/evogrid/internal/organism"
)

// PlaceBirthFunc picks where an offspring of the organism at parent goes.
type PlaceBirthFunc func(org organism.Organism, parent Position) Position

// PlaceInjectFunc picks where an injected organism goes.
type PlaceInjectFunc func(org organism.Organism) Position

// FindNeighborFunc returns a position adjacent to pos.
type FindNeighborFunc func(pos Position) Position

// Population is a named, ordered sequence of slots. A slot always holds
// either a real organism or the run's shared sentinel.
type Population struct {
	name    string
	id      int
	slots   []organism.Organism
	empty   organism.Organism
	numOrgs int

	placeBirth   PlaceBirthFunc
	placeInject  PlaceInjectFunc
	findNeighbor FindNeighborFunc
}

// New creates a population of size empty slots.
func New(name string, id, size int, empty organism.Organism) *Population {
	if empty == nil || !empty.IsEmpty() {
		panic("population: a sentinel organism is required")
	}
	p := &Population{name: name, id: id, empty: empty}
	p.slots = make([]organism.Organism, size)
	for i := range p.slots {
		p.slots[i] = empty
	}
	return p
}

func (p *Population) Name() string   { return p.name }
func (p *Population) ID() int        { return p.id }
func (p *Population) Size() int      { return len(p.slots) }
func (p *Population) NumOrgs() int   { return p.numOrgs }
func (p *Population) String() string { return p.name }

// Sentinel returns the shared placeholder used for empty slots.
func (p *Population) Sentinel() organism.Organism { return p.empty }

// At returns the occupant of slot i (the sentinel when empty).
func (p *Population) At(i int) organism.Organism { return p.slots[i] }

// IsEmpty reports whether slot i holds the sentinel.
func (p *Population) IsEmpty(i int) bool { return p.slots[i].IsEmpty() }

// IsOccupied reports whether slot i holds a real organism.
func (p *Population) IsOccupied(i int) bool { return !p.slots[i].IsEmpty() }

// Position returns a reference to slot i.
func (p *Population) Position(i int) Position { return Position{pop: p, index: i} }

// Positions returns a reference to every slot, in order.
func (p *Population) Positions() []Position {
	out := make([]Position, len(p.slots))
	for i := range p.slots {
		out[i] = Position{pop: p, index: i}
	}
	return out
}

// FirstEmpty returns the lowest empty slot, or an invalid position.
func (p *Population) FirstEmpty() Position {
	if p.numOrgs == len(p.slots) {
		return Position{}
	}
	for i, org := range p.slots {
		if org.IsEmpty() {
			return Position{pop: p, index: i}
		}
	}
	return Position{}
}

// Install puts org in slot i and returns the previous occupant.
func (p *Population) Install(i int, org organism.Organism) organism.Organism {
	if org == nil {
		org = p.empty
	}
	prev := p.slots[i]
	p.slots[i] = org
	if prev.IsEmpty() && !org.IsEmpty() {
		p.numOrgs++
	} else if !prev.IsEmpty() && org.IsEmpty() {
		p.numOrgs--
	}
	return prev
}

// Remove replaces slot i with the sentinel and returns what was there.
func (p *Population) Remove(i int) organism.Organism {
	return p.Install(i, p.empty)
}

// Swap exchanges the contents of slot i in p and slot j in q. The two
// populations may differ.
func Swap(p *Population, i int, q *Population, j int) {
	a, b := p.slots[i], q.slots[j]
	if p == q {
		p.slots[i], p.slots[j] = b, a
		return
	}
	p.Install(i, b)
	q.Install(j, a)
}

// Resize grows the population with empty slots or shrinks it. Slots removed
// by shrinking must already be empty.
func (p *Population) Resize(n int) error {
	if err := p.CheckResize(n); err != nil {
		return err
	}
	if n <= len(p.slots) {
		clear(p.slots[n:])
		p.slots = p.slots[:n]
		return nil
	}
	for len(p.slots) < n {
		p.slots = append(p.slots, p.empty)
	}
	return nil
}

// CheckResize reports whether Resize(n) would succeed: n must not be
// negative and every slot at or past n must be empty.
func (p *Population) CheckResize(n int) error {
	if n < 0 {
		return fmt.Errorf("population %q: negative size %d", p.name, n)
	}
	for i := n; i < len(p.slots); i++ {
		if !p.slots[i].IsEmpty() {
			return fmt.Errorf("population %q: cannot shrink to %d, slot %d is occupied", p.name, n, i)
		}
	}
	return nil
}

// SetPlaceBirth replaces the birth placement strategy.
func (p *Population) SetPlaceBirth(fn PlaceBirthFunc) { p.placeBirth = fn }

// SetPlaceInject replaces the injection placement strategy.
func (p *Population) SetPlaceInject(fn PlaceInjectFunc) { p.placeInject = fn }

// SetFindNeighbor replaces the neighbor lookup.
func (p *Population) SetFindNeighbor(fn FindNeighborFunc) { p.findNeighbor = fn }

// PlaceBirth asks the birth strategy for a destination.
func (p *Population) PlaceBirth(org organism.Organism, parent Position) Position {
	if p.placeBirth == nil {
		return Position{}
	}
	return p.placeBirth(org, parent)
}

// PlaceInject asks the injection strategy for a destination.
func (p *Population) PlaceInject(org organism.Organism) Position {
	if p.placeInject == nil {
		return Position{}
	}
	return p.placeInject(org)
}

// FindNeighbor returns a neighbor of pos, or an invalid position.
func (p *Population) FindNeighbor(pos Position) Position {
	if p.findNeighbor == nil {
		return Position{}
	}
	return p.findNeighbor(pos)
}

// OK checks the cached organism count against the slots.
func (p *Population) OK() bool {
	n := 0
	for _, org := range p.slots {
		if org == nil {
			return false
		}
		if !org.IsEmpty() {
			n++
		}
	}
	return n == p.numOrgs
}
