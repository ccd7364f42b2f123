// Package controller owns the populations and modules of one run. It drives
// the tick loop and provides the lifecycle operations (inject, birth, move,
// resize) that combine population changes with signal dispatch.
//
// A Controller is single threaded. Every operation runs to completion,
// including the signal handlers it triggers, before returning.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vk/evogrid/internal/equation"
	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/notify"
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/signal"
	"github.com/vk/evogrid/internal/trait"
)

// ErrSetup is returned when setup finished with errors.
var ErrSetup = errors.New("setup failed")

var _ module.Host = (*Controller)(nil)

// Controller is the root object of a run.
type Controller struct {
	logger *slog.Logger
	notes  *notify.Collector
	traits *trait.Manager
	layout *trait.Layout
	bus    *signal.Bus
	rng    *rand.Rand
	seed   int64
	empty  *organism.Empty

	pops     []*population.Population
	popNames map[string]*population.Population
	modules  []module.Module
	modNames map[string]module.Module

	tick    uint64
	exit    bool
	ready   bool
	closed  bool
	starts  []func()
	events  []*Event
	eqCache map[string]*equation.Equation
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSeed seeds the shared random source. Zero picks a seed from the clock.
func WithSeed(seed int64) Option {
	return func(c *Controller) { c.seed = seed }
}

// New creates an empty controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		logger:   slog.Default(),
		bus:      signal.NewBus(),
		layout:   trait.NewLayout(),
		empty:    organism.NewEmpty(),
		popNames: make(map[string]*population.Population),
		modNames: make(map[string]module.Module),
		eqCache:  make(map[string]*equation.Equation),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seed == 0 {
		c.seed = time.Now().UnixNano()
	}
	c.rng = rand.New(rand.NewSource(c.seed))
	c.notes = notify.New(c.onError, c.onWarning)
	c.traits = trait.NewManager(c.notes)
	return c
}

func (c *Controller) onError(msg string) {
	c.logger.Error(msg)
	c.bus.TriggerOnError(msg)
}

func (c *Controller) onWarning(msg string) {
	c.logger.Warn(msg)
	c.bus.TriggerOnWarning(msg)
}

func (c *Controller) Logger() *slog.Logger          { return c.logger }
func (c *Controller) RNG() *rand.Rand               { return c.rng }
func (c *Controller) Seed() int64                   { return c.seed }
func (c *Controller) Tick() uint64                  { return c.tick }
func (c *Controller) Traits() *trait.Manager        { return c.traits }
func (c *Controller) Layout() *trait.Layout         { return c.layout }
func (c *Controller) Bus() *signal.Bus              { return c.bus }
func (c *Controller) Notes() *notify.Collector      { return c.notes }
func (c *Controller) Sentinel() organism.Organism   { return c.empty }
func (c *Controller) Ready() bool                   { return c.ready }
func (c *Controller) ExitRequested() bool           { return c.exit }
func (c *Controller) Modules() []module.Module      { return append([]module.Module(nil), c.modules...) }
func (c *Controller) RescanSignals()                { c.bus.MarkDirty() }
func (c *Controller) Exit()                         { c.exit = true }
func (c *Controller) AddError(f string, a ...any)   { c.notes.AddError(f, a...) }
func (c *Controller) AddWarning(f string, a ...any) { c.notes.AddWarning(f, a...) }

// Populations returns every population in creation order.
func (c *Controller) Populations() []*population.Population {
	return append([]*population.Population(nil), c.pops...)
}

// Population looks a population up by name.
func (c *Controller) Population(name string) (*population.Population, bool) {
	p, ok := c.popNames[name]
	return p, ok
}

// AddPopulation creates a population with size empty slots and the default
// placement strategies.
func (c *Controller) AddPopulation(name string, size int) (*population.Population, error) {
	if _, exists := c.popNames[name]; exists {
		return nil, fmt.Errorf("population %q already exists", name)
	}
	if _, exists := c.modNames[name]; exists {
		return nil, fmt.Errorf("population %q: name is used by a module", name)
	}
	if size < 0 {
		return nil, fmt.Errorf("population %q: negative size %d", name, size)
	}
	pop := population.New(name, len(c.pops), size, c.empty)
	pop.SetPlaceInject(func(organism.Organism) population.Position { return c.PushEmpty(pop) })
	pop.SetPlaceBirth(func(organism.Organism, population.Position) population.Position { return c.PushEmpty(pop) })
	pop.SetFindNeighbor(func(population.Position) population.Position { return c.RandomPos(pop) })
	c.pops = append(c.pops, pop)
	c.popNames[name] = pop
	c.logger.Debug("Population created.", "population", name, "size", size)
	return pop, nil
}

// Module looks a module up by instance name.
func (c *Controller) Module(name string) (module.Module, bool) {
	m, ok := c.modNames[name]
	return m, ok
}

// AddModule attaches m to the controller and subscribes it to the bus.
func (c *Controller) AddModule(m module.Module) error {
	if c.ready {
		return fmt.Errorf("module %q added after setup", m.Name())
	}
	if _, exists := c.modNames[m.Name()]; exists {
		return fmt.Errorf("module %q already exists", m.Name())
	}
	if _, exists := c.popNames[m.Name()]; exists {
		return fmt.Errorf("module %q: name is used by a population", m.Name())
	}
	module.Attach(m, c)
	c.modules = append(c.modules, m)
	c.modNames[m.Name()] = m
	c.bus.Add(m)
	c.logger.Debug("Module added.", "module", m.Name(), "type", m.Type(), "hooks", m.Hooks().String())
	return nil
}

// Setup configures every module, negotiates the trait layout and locks it,
// then scans signals and activates error reporting. It fails if any error
// was reported along the way.
func (c *Controller) Setup() error {
	for _, m := range c.modules {
		if err := m.SetupModule(c); err != nil {
			c.AddError("module %q: %s", m.Name(), err)
		}
	}

	if c.traits.Verify() {
		if err := c.traits.RegisterAll(c.layout); err != nil {
			c.AddError("%s", err)
		}
	}
	c.traits.Lock()
	c.layout.Lock()
	c.logger.Debug("Trait layout locked.", "slots", c.layout.Len())

	if c.notes.NumErrors() == 0 {
		for _, m := range c.modules {
			if err := m.SetupLayout(c.layout); err != nil {
				c.AddError("module %q: %s", m.Name(), err)
			}
		}
	}

	c.bus.Rescan()
	c.notes.Activate()

	if n := c.notes.NumErrors(); n > 0 {
		c.exit = true
		return fmt.Errorf("%w with %d error(s): %w", ErrSetup, n, c.notes.Err())
	}
	c.ready = true
	c.logger.Info("Setup complete.", "modules", len(c.modules), "populations", len(c.pops), "traits", c.layout.Len(), "seed", c.seed)
	return nil
}
