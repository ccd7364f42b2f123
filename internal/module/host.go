package module

import (
	"log/slog"
	"math/rand"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/equation"
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/trait"
)

// Host is the view of the running controller that modules work through.
type Host interface {
	Logger() *slog.Logger
	RNG() *rand.Rand
	Seed() int64
	Tick() uint64
	Exit()

	Traits() *trait.Manager
	Layout() *trait.Layout
	Compile(src string) (*equation.Equation, error)
	Preprocess(src string) (string, error)

	AddError(format string, args ...any)
	AddWarning(format string, args ...any)
	RescanSignals()

	Population(name string) (*population.Population, bool)
	Populations() []*population.Population
	AddPopulation(name string, size int) (*population.Population, error)
	Module(name string) (Module, bool)
	Modules() []Module

	Lifecycle
	Queries
}

// Lifecycle holds the operations that move organisms in and out of slots.
// Each one fires the matching signals.
type Lifecycle interface {
	AddOrgAt(org organism.Organism, pos, parent population.Position)
	ClearOrgAt(pos population.Position)
	SwapOrgs(a, b population.Position)
	MoveOrg(from, to population.Position)
	ResizePop(pop *population.Population, size int) error
	EmptyPop(pop *population.Population, size int) error
	ClearPop(pop *population.Population)
	CopyPop(src, dst *population.Population) error
	MoveOrgs(src, dst *population.Population, reset bool) error

	Inject(pop *population.Population, org organism.Organism, n int) population.Collection
	InjectByName(pop *population.Population, typeName string, n int) population.Collection
	InjectAt(org organism.Organism, pos population.Position) population.Position
	DoBirth(parent organism.Organism, parentPos population.Position, target *population.Population, n int, mutate bool) population.Collection
	DoBirthAt(parent organism.Organism, parentPos, target population.Position, mutate bool) population.Position
	Replicate(parentPos population.Position, target *population.Population, n int, mutate bool) population.Collection

	RandomPos(pop *population.Population) population.Position
	RandomOrgPos(pop *population.Population) population.Position
}

// Queries evaluates trait equations over collections.
type Queries interface {
	TraitSummary(c population.Collection, eq, filter string) (cty.Value, error)
	Filter(c population.Collection, eq string) (population.Collection, error)
	FindMin(c population.Collection, eq string) (population.Position, error)
	FindMax(c population.Collection, eq string) (population.Position, error)
	ToCollection(names string) (population.Collection, error)
}
