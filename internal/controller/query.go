package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/equation"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/query"
)

// Compile compiles a trait equation against the locked layout. Results are
// cached by source text.
func (c *Controller) Compile(src string) (*equation.Equation, error) {
	if !c.layout.Locked() {
		return nil, fmt.Errorf("equation %q compiled before the trait layout was locked", src)
	}
	key := strings.TrimSpace(src)
	if eq, ok := c.eqCache[key]; ok {
		return eq, nil
	}
	eq, err := equation.Compile(c.layout, key)
	if err != nil {
		return nil, err
	}
	c.eqCache[key] = eq
	return eq, nil
}

// ToCollection resolves a comma separated target list. Each item is either
// a population name, meaning every slot, or name[i,j,...] naming slots.
// Collection.String output parses back to the same collection.
func (c *Controller) ToCollection(target string) (population.Collection, error) {
	var out population.Collection
	items, err := splitTarget(target)
	if err != nil {
		return out, err
	}
	for _, item := range items {
		name, idx, hasIdx := strings.Cut(item, "[")
		name = strings.TrimSpace(name)
		pop, ok := c.popNames[name]
		if !ok {
			return out, fmt.Errorf("unknown population %q", name)
		}
		if !hasIdx {
			out.InsertPop(pop)
			continue
		}
		for _, field := range strings.Split(strings.TrimSuffix(idx, "]"), ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			i, err := strconv.Atoi(field)
			if err != nil || i < 0 || i >= pop.Size() {
				return out, fmt.Errorf("population %q has no slot %q", name, field)
			}
			out.Insert(pop.Position(i))
		}
	}
	return out, nil
}

// splitTarget splits on commas outside brackets and drops empty items.
func splitTarget(target string) ([]string, error) {
	var (
		items []string
		depth int
		start int
	)
	flush := func(end int) {
		if item := strings.TrimSpace(target[start:end]); item != "" {
			items = append(items, item)
		}
		start = end + 1
	}
	for i, r := range target {
		switch r {
		case '[':
			if depth++; depth > 1 {
				return nil, fmt.Errorf("target %q: nested brackets", target)
			}
		case ']':
			if depth--; depth < 0 {
				return nil, fmt.Errorf("target %q: unmatched ']'", target)
			}
		case ',':
			if depth == 0 {
				flush(i)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("target %q: unclosed '['", target)
	}
	flush(len(target))
	return items, nil
}

// Alive returns the occupied slots of pop.
func (c *Controller) Alive(pop *population.Population) population.Collection {
	return population.NewCollection(population.FromPopulation(pop).Occupied()...)
}

func (c *Controller) rows(coll population.Collection, eq *equation.Equation) ([]query.Row, []population.Position, error) {
	positions := coll.Occupied()
	rows := make([]query.Row, 0, len(positions))
	for _, pos := range positions {
		traits := pos.Org().Traits()
		v, err := eq.Eval(traits)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, query.Row{Value: v, Traits: traits})
	}
	return rows, positions, nil
}

// TraitSummary reduces eq over the living organisms of coll with the named
// filter (mean, max, richness, ...).
func (c *Controller) TraitSummary(coll population.Collection, eq, filter string) (cty.Value, error) {
	compiled, err := c.Compile(eq)
	if err != nil {
		return cty.NilVal, err
	}
	summary, err := query.Build(filter, compiled.Type(), c.layout)
	if err != nil {
		return cty.NilVal, err
	}
	rows, _, err := c.rows(coll, compiled)
	if err != nil {
		return cty.NilVal, err
	}
	return summary(rows)
}

// Filter returns the living organisms of coll for which eq is true.
func (c *Controller) Filter(coll population.Collection, eq string) (population.Collection, error) {
	var out population.Collection
	compiled, err := c.Compile(eq)
	if err != nil {
		return out, err
	}
	for _, pos := range coll.Occupied() {
		ok, err := compiled.Bool(pos.Org().Traits())
		if err != nil {
			return out, err
		}
		if ok {
			out.Insert(pos)
		}
	}
	return out, nil
}

// FindMin returns the living organism of coll with the lowest eq value.
// Ties go to the first in collection order.
func (c *Controller) FindMin(coll population.Collection, eq string) (population.Position, error) {
	return c.find(coll, eq, func(a, b float64) bool { return a < b })
}

// FindMax returns the living organism of coll with the highest eq value.
func (c *Controller) FindMax(coll population.Collection, eq string) (population.Position, error) {
	return c.find(coll, eq, func(a, b float64) bool { return a > b })
}

func (c *Controller) find(coll population.Collection, eq string, better func(a, b float64) bool) (population.Position, error) {
	compiled, err := c.Compile(eq)
	if err != nil {
		return population.Position{}, err
	}
	var (
		best  population.Position
		bestV float64
	)
	for _, pos := range coll.Occupied() {
		v, err := compiled.Float(pos.Org().Traits())
		if err != nil {
			return population.Position{}, err
		}
		if !best.IsValid() || better(v, bestV) {
			best, bestV = pos, v
		}
	}
	return best, nil
}
