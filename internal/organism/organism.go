// Package organism defines the contract every simulated individual meets,
// the shared sentinel that fills unoccupied population slots, and the
// Manager interface implemented by modules that build organisms.
package organism

import (
	"math/rand"

	"github.com/vk/evogrid/internal/trait"
)

// Organism is one simulated individual.
type Organism interface {
	// Clone returns an independent deep copy, trait store included.
	Clone() Organism
	// Mutate applies random mutations and returns how many occurred.
	Mutate(rng *rand.Rand) int
	// Randomize replaces the organism's state with random values.
	Randomize(rng *rand.Rand)
	// String renders the organism for output.
	String() string
	// Traits returns the organism's trait store. The sentinel has none.
	Traits() *trait.Store
	// IsEmpty reports whether this is the sentinel.
	IsEmpty() bool
}

// Manager builds organisms of one representation.
type Manager interface {
	Name() string
	Make(rng *rand.Rand) Organism
}

// Base carries the trait store and is meant to be embedded by concrete
// organism types.
type Base struct {
	traits *trait.Store
}

// NewBase wraps a trait store.
func NewBase(traits *trait.Store) Base { return Base{traits: traits} }

// Traits returns the organism's trait store.
func (b *Base) Traits() *trait.Store { return b.traits }

// IsEmpty is false for every real organism.
func (b *Base) IsEmpty() bool { return false }

// CloneBase copies the trait store for a cloned organism.
func (b *Base) CloneBase() Base {
	if b.traits == nil {
		return Base{}
	}
	return Base{traits: b.traits.Clone()}
}
