package controller

import (
	"context"
)

// Event is an action scheduled on the tick counter. It fires at Start and
// then every Every ticks until Stop. Every == 0 fires once; Stop == 0 never
// stops.
type Event struct {
	Name   string
	Start  uint64
	Every  uint64
	Stop   uint64
	Action func(tick uint64)
}

func (e *Event) due(tick uint64) bool {
	if tick < e.Start || (e.Stop != 0 && tick > e.Stop) {
		return false
	}
	if e.Every == 0 {
		return tick == e.Start
	}
	return (tick-e.Start)%e.Every == 0
}

// OnStart queues fn to run once, after setup and before the first tick.
func (c *Controller) OnStart(fn func()) { c.starts = append(c.starts, fn) }

// Schedule adds a tick event.
func (c *Controller) Schedule(ev *Event) { c.events = append(c.events, ev) }

// Start runs the queued start actions. It is called by Run and is a no-op
// after the first call.
func (c *Controller) Start() {
	starts := c.starts
	c.starts = nil
	for _, fn := range starts {
		if c.exit {
			return
		}
		fn()
	}
}

// Update advances the run by n ticks, stopping early if exit is requested.
func (c *Controller) Update(n int) {
	for i := 0; i < n && !c.exit; i++ {
		c.step()
	}
}

func (c *Controller) step() {
	c.bus.TriggerBeforeUpdate(c.tick)
	c.tick++
	c.bus.TriggerOnUpdate(c.tick)
	for _, ev := range c.events {
		if ev.due(c.tick) {
			ev.Action(c.tick)
		}
	}
}

// Run starts the run and ticks until updates ticks have passed (forever
// when updates is 0), exit is requested, or ctx is done.
func (c *Controller) Run(ctx context.Context, updates uint64) error {
	if !c.ready {
		return ErrSetup
	}
	c.Start()
	logger := c.logger
	for i := uint64(0); updates == 0 || i < updates; i++ {
		if err := ctx.Err(); err != nil {
			logger.Info("Run interrupted.", "tick", c.tick, "reason", err)
			c.exit = true
		}
		if c.exit {
			break
		}
		c.step()
	}
	logger.Info("Run finished.", "tick", c.tick)
	return nil
}

// Help triggers OnHelp so modules can print their own usage.
func (c *Controller) Help() { c.bus.TriggerOnHelp() }

// Close fires BeforeExit, clears every population and drops them. The
// sentinel is released last. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.exit = true
	c.bus.TriggerBeforeExit()
	for _, pop := range c.pops {
		c.ClearPop(pop)
	}
	c.pops = nil
	clear(c.popNames)
	c.empty = nil
	c.logger.Debug("Controller closed.", "tick", c.tick)
}
