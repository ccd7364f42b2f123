package controller

import (
	"fmt"

	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
)

// AddOrgAt is the single way an organism enters a population. Whatever
// occupied pos dies first. parent is invalid for injected organisms.
func (c *Controller) AddOrgAt(org organism.Organism, pos, parent population.Position) {
	if !pos.IsValid() {
		c.AddError("cannot place %s at invalid position %s", org, pos)
		return
	}
	if org == nil || org.IsEmpty() {
		c.ClearOrgAt(pos)
		return
	}
	c.bus.TriggerBeforePlacement(org, pos, parent)
	c.ClearOrgAt(pos)
	pos.Pop().Install(pos.Index(), org)
	c.bus.TriggerOnPlacement(pos)
	c.layout.RecordBirth(org.Traits())
}

// ClearOrgAt kills the organism at pos, if there is one, leaving the slot
// holding the sentinel.
func (c *Controller) ClearOrgAt(pos population.Position) {
	if !pos.IsOccupied() {
		return
	}
	c.bus.TriggerBeforeDeath(pos)
	pos.Pop().Remove(pos.Index())
}

// SwapOrgs exchanges the contents of two slots, possibly across
// populations.
func (c *Controller) SwapOrgs(a, b population.Position) {
	if !a.IsValid() || !b.IsValid() {
		c.AddError("cannot swap %s and %s", a, b)
		return
	}
	c.bus.TriggerBeforeSwap(a, b)
	population.Swap(a.Pop(), a.Index(), b.Pop(), b.Index())
	c.bus.TriggerOnSwap(a, b)
}

// MoveOrg moves the organism at from to to, killing whatever was at to.
func (c *Controller) MoveOrg(from, to population.Position) {
	c.ClearOrgAt(to)
	c.SwapOrgs(from, to)
}

// ResizePop changes the number of slots in pop. Slots removed by shrinking
// must be empty. A rejected resize fires no signals.
func (c *Controller) ResizePop(pop *population.Population, size int) error {
	if err := pop.CheckResize(size); err != nil {
		return err
	}
	old := pop.Size()
	c.bus.TriggerBeforePopResize(pop, size)
	if err := pop.Resize(size); err != nil {
		return err
	}
	c.bus.TriggerOnPopResize(pop, old)
	return nil
}

// ClearPop kills every organism in pop without changing its size.
func (c *Controller) ClearPop(pop *population.Population) {
	for i := 0; i < pop.Size(); i++ {
		c.ClearOrgAt(pop.Position(i))
	}
}

// EmptyPop kills every organism in pop and resizes it.
func (c *Controller) EmptyPop(pop *population.Population, size int) error {
	c.ClearPop(pop)
	return c.ResizePop(pop, size)
}

// CopyPop replaces dst with clones of src, slot for slot.
func (c *Controller) CopyPop(src, dst *population.Population) error {
	if src == dst {
		return fmt.Errorf("cannot copy population %q onto itself", src.Name())
	}
	if err := c.EmptyPop(dst, src.Size()); err != nil {
		return err
	}
	for i := 0; i < src.Size(); i++ {
		if src.IsOccupied(i) {
			c.InjectAt(src.At(i), dst.Position(i))
		}
	}
	return nil
}

// MoveOrgs moves every organism of src into dst and leaves src with no
// slots. With reset, dst is emptied and resized to src's size first and
// organisms keep their indices; otherwise dst grows and they are appended.
func (c *Controller) MoveOrgs(src, dst *population.Population, reset bool) error {
	if src == dst {
		return fmt.Errorf("cannot move population %q onto itself", src.Name())
	}
	start := 0
	if reset {
		if err := c.EmptyPop(dst, src.Size()); err != nil {
			return err
		}
	} else {
		start = dst.Size()
		if err := c.ResizePop(dst, start+src.Size()); err != nil {
			return err
		}
	}
	for i := 0; i < src.Size(); i++ {
		if src.IsOccupied(i) {
			c.MoveOrg(src.Position(i), dst.Position(start+i))
		}
	}
	return c.EmptyPop(src, 0)
}

// RandomPos returns a uniformly chosen slot of pop, which may be empty.
func (c *Controller) RandomPos(pop *population.Population) population.Position {
	if pop.Size() == 0 {
		return population.Position{}
	}
	return pop.Position(c.rng.Intn(pop.Size()))
}

// RandomOrgPos returns a uniformly chosen occupied slot of pop, or an
// invalid position when pop has no living organisms.
func (c *Controller) RandomOrgPos(pop *population.Population) population.Position {
	if pop.NumOrgs() == 0 {
		return population.Position{}
	}
	for {
		if pos := c.RandomPos(pop); pos.IsOccupied() {
			return pos
		}
	}
}

// PushEmpty is the default placement: the first empty slot, or a random
// living organism to replace when pop is full.
func (c *Controller) PushEmpty(pop *population.Population) population.Position {
	if pos := pop.FirstEmpty(); pos.IsValid() {
		return pos
	}
	return c.RandomOrgPos(pop)
}
