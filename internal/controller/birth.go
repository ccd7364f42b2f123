package controller

import (
	"github.com/vk/evogrid/internal/organism"
	"github.com/vk/evogrid/internal/population"
)

// Inject places n clones of org into pop using the population's injection
// strategy. It returns the positions that received an organism.
func (c *Controller) Inject(pop *population.Population, org organism.Organism, n int) population.Collection {
	var placed population.Collection
	for i := 0; i < n; i++ {
		if pos := c.InjectInstance(pop, org.Clone()); pos.IsValid() {
			placed.Insert(pos)
		}
	}
	return placed
}

// InjectByName places n organisms built by the named organism manager.
func (c *Controller) InjectByName(pop *population.Population, typeName string, n int) population.Collection {
	var placed population.Collection
	m, ok := c.modNames[typeName]
	if !ok {
		c.AddError("cannot inject %q into %q: no such module", typeName, pop.Name())
		return placed
	}
	mgr, ok := m.(organism.Manager)
	if !ok {
		c.AddError("cannot inject %q into %q: module does not build organisms", typeName, pop.Name())
		return placed
	}
	for i := 0; i < n; i++ {
		if pos := c.InjectInstance(pop, mgr.Make(c.rng)); pos.IsValid() {
			placed.Insert(pos)
		}
	}
	return placed
}

// InjectInstance places org, which the caller gives up, into pop.
func (c *Controller) InjectInstance(pop *population.Population, org organism.Organism) population.Position {
	c.bus.TriggerOnInjectReady(org, pop)
	pos := pop.PlaceInject(org)
	if !pos.IsValid() {
		c.AddError("injection of %s into %q has no valid position", org, pop.Name())
		return population.Position{}
	}
	c.AddOrgAt(org, pos, population.Position{})
	return pos
}

// InjectAt places a clone of org at pos, bypassing the placement strategy.
func (c *Controller) InjectAt(org organism.Organism, pos population.Position) population.Position {
	if !pos.IsValid() {
		c.AddError("cannot inject %s at invalid position %s", org, pos)
		return population.Position{}
	}
	inst := org.Clone()
	c.bus.TriggerOnInjectReady(inst, pos.Pop())
	c.AddOrgAt(inst, pos, population.Position{})
	return pos
}

// offspring builds one child of parent.
func (c *Controller) offspring(parent organism.Organism, mutate bool) organism.Organism {
	child := parent.Clone()
	if traits := child.Traits(); traits != nil {
		c.layout.Inherit(traits, parent.Traits())
	}
	if mutate {
		c.bus.TriggerBeforeMutate(child)
		child.Mutate(c.rng)
		c.bus.TriggerOnMutate(child)
	}
	return child
}

func (c *Controller) beforeRepro(parent organism.Organism, parentPos population.Position) {
	c.layout.RecordRepro(parent.Traits())
	c.bus.TriggerBeforeRepro(parentPos)
}

// DoBirth produces n offspring of parent into target using the target's
// birth strategy. BeforeRepro fires once for the whole batch.
func (c *Controller) DoBirth(parent organism.Organism, parentPos population.Position, target *population.Population, n int, mutate bool) population.Collection {
	var placed population.Collection
	if parent == nil || parent.IsEmpty() {
		c.AddError("birth into %q from an empty parent at %s", target.Name(), parentPos)
		return placed
	}
	c.beforeRepro(parent, parentPos)
	for i := 0; i < n; i++ {
		child := c.offspring(parent, mutate)
		c.bus.TriggerOnOffspringReady(child, parentPos, target)
		pos := target.PlaceBirth(child, parentPos)
		if !pos.IsValid() {
			c.AddError("birth of %s into %q has no valid position", child, target.Name())
			continue
		}
		c.AddOrgAt(child, pos, parentPos)
		placed.Insert(pos)
	}
	return placed
}

// DoBirthAt produces one offspring of parent at an explicit position.
func (c *Controller) DoBirthAt(parent organism.Organism, parentPos, target population.Position, mutate bool) population.Position {
	if parent == nil || parent.IsEmpty() {
		c.AddError("birth at %s from an empty parent at %s", target, parentPos)
		return population.Position{}
	}
	if !target.IsValid() {
		c.AddError("birth at invalid position %s", target)
		return population.Position{}
	}
	c.beforeRepro(parent, parentPos)
	child := c.offspring(parent, mutate)
	c.bus.TriggerOnOffspringReady(child, parentPos, target.Pop())
	c.AddOrgAt(child, target, parentPos)
	return target
}

// Replicate is DoBirth for the organism at parentPos.
func (c *Controller) Replicate(parentPos population.Position, target *population.Population, n int, mutate bool) population.Collection {
	return c.DoBirth(parentPos.Org(), parentPos, target, n, mutate)
}
