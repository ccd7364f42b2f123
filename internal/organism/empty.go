package organism

import (
	"math/rand"

	"github.com/vk/evogrid/internal/trait"
)

// Empty is the placeholder stored in every unoccupied slot. A controller
// creates exactly one and shares it by reference; it is never cloned or
// mutated.
type Empty struct{}

// NewEmpty returns the sentinel for a run.
func NewEmpty() *Empty { return &Empty{} }

// Clone returns the sentinel itself.
func (e *Empty) Clone() Organism { return e }

func (e *Empty) Mutate(*rand.Rand) int { return 0 }
func (e *Empty) Randomize(*rand.Rand)  {}
func (e *Empty) String() string        { return "[empty]" }
func (e *Empty) Traits() *trait.Store  { return nil }
func (e *Empty) IsEmpty() bool         { return true }
