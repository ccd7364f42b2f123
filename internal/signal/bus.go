package signal

import (
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
)

// Subscriber is anything that can sit on the bus. Hooks reports the
// channels it currently wants.
type Subscriber interface {
	Name() string
	Hooks() Set
}

// Bus keeps one subscriber list per channel, in registration order.
// It is not safe for concurrent use.
type Bus struct {
	subs    []Subscriber
	lists   [NumEvents][]Subscriber
	current [NumEvents]Subscriber
	dirty   bool
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Add appends a subscriber. Lists are rebuilt on the next trigger.
func (b *Bus) Add(s Subscriber) {
	b.subs = append(b.subs, s)
	b.dirty = true
}

// Subscribers returns every registered subscriber in registration order.
func (b *Bus) Subscribers() []Subscriber { return append([]Subscriber(nil), b.subs...) }

// MarkDirty asks for a rescan before the next trigger.
func (b *Bus) MarkDirty() { b.dirty = true }

// Dirty reports whether a rescan is pending.
func (b *Bus) Dirty() bool { return b.dirty }

// Rescan rebuilds every channel list from the subscribers' current hooks.
func (b *Bus) Rescan() {
	for e := range b.lists {
		b.lists[e] = nil
	}
	for _, s := range b.subs {
		hooks := s.Hooks()
		for e := Event(0); e < NumEvents; e++ {
			if hooks.Has(e) {
				b.lists[e] = append(b.lists[e], s)
			}
		}
	}
	b.dirty = false
}

// List returns the subscribers of one channel as of the last rescan.
func (b *Bus) List(e Event) []Subscriber { return append([]Subscriber(nil), b.lists[e]...) }

// Names returns the names on one channel as of the last rescan.
func (b *Bus) Names(e Event) []string {
	names := make([]string, len(b.lists[e]))
	for i, s := range b.lists[e] {
		names[i] = s.Name()
	}
	return names
}

// Triggering returns the subscriber currently being called on e, or nil.
// With nested triggers only the innermost one is reported.
func (b *Bus) Triggering(e Event) Subscriber { return b.current[e] }

// Trigger calls fn for each subscriber of e in registration order.
func (b *Bus) Trigger(e Event, fn func(Subscriber)) {
	if b.dirty {
		b.Rescan()
	}
	for _, s := range b.lists[e] {
		prev := b.current[e]
		b.current[e] = s
		fn(s)
		b.current[e] = prev
	}
}

func (b *Bus) TriggerBeforeUpdate(tick uint64) {
	b.Trigger(BeforeUpdate, func(s Subscriber) {
		if h, ok := s.(BeforeUpdateHandler); ok {
			h.BeforeUpdate(tick)
		}
	})
}

func (b *Bus) TriggerOnUpdate(tick uint64) {
	b.Trigger(OnUpdate, func(s Subscriber) {
		if h, ok := s.(OnUpdateHandler); ok {
			h.OnUpdate(tick)
		}
	})
}

func (b *Bus) TriggerBeforeRepro(parent population.Position) {
	b.Trigger(BeforeRepro, func(s Subscriber) {
		if h, ok := s.(BeforeReproHandler); ok {
			h.BeforeRepro(parent)
		}
	})
}

func (b *Bus) TriggerOnOffspringReady(offspring organism.Organism, parent population.Position, target *population.Population) {
	b.Trigger(OnOffspringReady, func(s Subscriber) {
		if h, ok := s.(OnOffspringReadyHandler); ok {
			h.OnOffspringReady(offspring, parent, target)
		}
	})
}

func (b *Bus) TriggerOnInjectReady(org organism.Organism, target *population.Population) {
	b.Trigger(OnInjectReady, func(s Subscriber) {
		if h, ok := s.(OnInjectReadyHandler); ok {
			h.OnInjectReady(org, target)
		}
	})
}

func (b *Bus) TriggerBeforePlacement(org organism.Organism, target, parent population.Position) {
	b.Trigger(BeforePlacement, func(s Subscriber) {
		if h, ok := s.(BeforePlacementHandler); ok {
			h.BeforePlacement(org, target, parent)
		}
	})
}

func (b *Bus) TriggerOnPlacement(pos population.Position) {
	b.Trigger(OnPlacement, func(s Subscriber) {
		if h, ok := s.(OnPlacementHandler); ok {
			h.OnPlacement(pos)
		}
	})
}

func (b *Bus) TriggerBeforeMutate(org organism.Organism) {
	b.Trigger(BeforeMutate, func(s Subscriber) {
		if h, ok := s.(BeforeMutateHandler); ok {
			h.BeforeMutate(org)
		}
	})
}

func (b *Bus) TriggerOnMutate(org organism.Organism) {
	b.Trigger(OnMutate, func(s Subscriber) {
		if h, ok := s.(OnMutateHandler); ok {
			h.OnMutate(org)
		}
	})
}

func (b *Bus) TriggerBeforeDeath(pos population.Position) {
	b.Trigger(BeforeDeath, func(s Subscriber) {
		if h, ok := s.(BeforeDeathHandler); ok {
			h.BeforeDeath(pos)
		}
	})
}

func (b *Bus) TriggerBeforeSwap(x, y population.Position) {
	b.Trigger(BeforeSwap, func(s Subscriber) {
		if h, ok := s.(BeforeSwapHandler); ok {
			h.BeforeSwap(x, y)
		}
	})
}

func (b *Bus) TriggerOnSwap(x, y population.Position) {
	b.Trigger(OnSwap, func(s Subscriber) {
		if h, ok := s.(OnSwapHandler); ok {
			h.OnSwap(x, y)
		}
	})
}

func (b *Bus) TriggerBeforePopResize(pop *population.Population, newSize int) {
	b.Trigger(BeforePopResize, func(s Subscriber) {
		if h, ok := s.(BeforePopResizeHandler); ok {
			h.BeforePopResize(pop, newSize)
		}
	})
}

func (b *Bus) TriggerOnPopResize(pop *population.Population, oldSize int) {
	b.Trigger(OnPopResize, func(s Subscriber) {
		if h, ok := s.(OnPopResizeHandler); ok {
			h.OnPopResize(pop, oldSize)
		}
	})
}

func (b *Bus) TriggerOnError(msg string) {
	b.Trigger(OnError, func(s Subscriber) {
		if h, ok := s.(OnErrorHandler); ok {
			h.OnError(msg)
		}
	})
}

func (b *Bus) TriggerOnWarning(msg string) {
	b.Trigger(OnWarning, func(s Subscriber) {
		if h, ok := s.(OnWarningHandler); ok {
			h.OnWarning(msg)
		}
	})
}

func (b *Bus) TriggerBeforeExit() {
	b.Trigger(BeforeExit, func(s Subscriber) {
		if h, ok := s.(BeforeExitHandler); ok {
			h.BeforeExit()
		}
	})
}

func (b *Bus) TriggerOnHelp() {
	b.Trigger(OnHelp, func(s Subscriber) {
		if h, ok := s.(OnHelpHandler); ok {
			h.OnHelp()
		}
	})
}
