package selection

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vk/evogrid/internal/population"
)

// Scored is a living organism with its fitness.
type Scored struct {
	Pos     population.Position
	Fitness float64
}

// Rank sorts candidates by descending fitness. Ties keep slot order.
func Rank(candidates []Scored) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Fitness > candidates[j].Fitness
	})
}

// Selector chooses parents from ranked candidates.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []Scored) (Scored, error)
}

// EliteSelector picks uniformly from the top Count candidates.
type EliteSelector struct {
	Count int
}

func (EliteSelector) Name() string {
	return "elite"
}

func (s EliteSelector) PickParent(rng *rand.Rand, ranked []Scored) (Scored, error) {
	if rng == nil {
		return Scored{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return Scored{}, fmt.Errorf("no candidates")
	}
	count := s.Count
	if count <= 0 {
		return Scored{}, fmt.Errorf("invalid elite count: %d", count)
	}
	if count > len(ranked) {
		count = len(ranked)
	}
	return ranked[rng.Intn(count)], nil
}

// TournamentSelector samples Size candidates and keeps the fittest.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []Scored) (Scored, error) {
	if rng == nil {
		return Scored{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return Scored{}, fmt.Errorf("no candidates")
	}
	size := s.Size
	if size <= 0 {
		size = 3
	}

	best := ranked[rng.Intn(len(ranked))]
	for i := 1; i < size; i++ {
		candidate := ranked[rng.Intn(len(ranked))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best, nil
}
