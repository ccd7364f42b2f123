package signal

import (
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
)

// BeforeUpdateHandler is called at the start of each tick, before the counter advances.
type BeforeUpdateHandler interface {
	BeforeUpdate(tick uint64)
}

// OnUpdateHandler is called once the tick counter has advanced.
type OnUpdateHandler interface {
	OnUpdate(tick uint64)
}

// BeforeReproHandler is called once before a parent produces any offspring.
type BeforeReproHandler interface {
	BeforeRepro(parent population.Position)
}

// OnOffspringReadyHandler is called for each offspring before it is placed.
type OnOffspringReadyHandler interface {
	OnOffspringReady(offspring organism.Organism, parent population.Position, target *population.Population)
}

// OnInjectReadyHandler is called for each injected organism before it is placed.
type OnInjectReadyHandler interface {
	OnInjectReady(org organism.Organism, target *population.Population)
}

// BeforePlacementHandler is called before org is installed at target. parent is invalid for injections.
type BeforePlacementHandler interface {
	BeforePlacement(org organism.Organism, target, parent population.Position)
}

// OnPlacementHandler is called after an organism is installed.
type OnPlacementHandler interface {
	OnPlacement(pos population.Position)
}

type BeforeMutateHandler interface {
	BeforeMutate(org organism.Organism)
}

type OnMutateHandler interface {
	OnMutate(org organism.Organism)
}

// BeforeDeathHandler is called while the dying organism is still in its slot.
type BeforeDeathHandler interface {
	BeforeDeath(pos population.Position)
}

type BeforeSwapHandler interface {
	BeforeSwap(a, b population.Position)
}

type OnSwapHandler interface {
	OnSwap(a, b population.Position)
}

type BeforePopResizeHandler interface {
	BeforePopResize(pop *population.Population, newSize int)
}

type OnPopResizeHandler interface {
	OnPopResize(pop *population.Population, oldSize int)
}

type OnErrorHandler interface {
	OnError(msg string)
}

type OnWarningHandler interface {
	OnWarning(msg string)
}

// BeforeExitHandler is called once during teardown, before populations are cleared.
type BeforeExitHandler interface {
	BeforeExit()
}

type OnHelpHandler interface {
	OnHelp()
}

// Detect returns the channels whose handler interface v implements.
func Detect(v any) Set {
	var s Set
	if _, ok := v.(BeforeUpdateHandler); ok {
		s = s.With(BeforeUpdate)
	}
	if _, ok := v.(OnUpdateHandler); ok {
		s = s.With(OnUpdate)
	}
	if _, ok := v.(BeforeReproHandler); ok {
		s = s.With(BeforeRepro)
	}
	if _, ok := v.(OnOffspringReadyHandler); ok {
		s = s.With(OnOffspringReady)
	}
	if _, ok := v.(OnInjectReadyHandler); ok {
		s = s.With(OnInjectReady)
	}
	if _, ok := v.(BeforePlacementHandler); ok {
		s = s.With(BeforePlacement)
	}
	if _, ok := v.(OnPlacementHandler); ok {
		s = s.With(OnPlacement)
	}
	if _, ok := v.(BeforeMutateHandler); ok {
		s = s.With(BeforeMutate)
	}
	if _, ok := v.(OnMutateHandler); ok {
		s = s.With(OnMutate)
	}
	if _, ok := v.(BeforeDeathHandler); ok {
		s = s.With(BeforeDeath)
	}
	if _, ok := v.(BeforeSwapHandler); ok {
		s = s.With(BeforeSwap)
	}
	if _, ok := v.(OnSwapHandler); ok {
		s = s.With(OnSwap)
	}
	if _, ok := v.(BeforePopResizeHandler); ok {
		s = s.With(BeforePopResize)
	}
	if _, ok := v.(OnPopResizeHandler); ok {
		s = s.With(OnPopResize)
	}
	if _, ok := v.(OnErrorHandler); ok {
		s = s.With(OnError)
	}
	if _, ok := v.(OnWarningHandler); ok {
		s = s.With(OnWarning)
	}
	if _, ok := v.(BeforeExitHandler); ok {
		s = s.With(BeforeExit)
	}
	if _, ok := v.(OnHelpHandler); ok {
		s = s.With(OnHelp)
	}
	return s
}
