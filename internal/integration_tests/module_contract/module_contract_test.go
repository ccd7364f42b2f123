package integration_tests

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/app"
	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/population"
	"github.com/vk/evogrid/internal/registry"
	"github.com/vk/evogrid/internal/testutil"
)

// replicator picks a random living organism in "main" every update and
// replicates it in place. It counts the placements and deaths it sees.
type replicator struct {
	module.Base
	placements int
	deaths     int
}

func (r *replicator) OnUpdate(uint64) {
	h := r.Host()
	pop, ok := h.Population("main")
	if !ok {
		h.AddError("no main population")
		return
	}
	if pos := h.RandomOrgPos(pop); pos.IsValid() {
		h.Replicate(pos, pop, 1, true)
	}
}

func (r *replicator) OnPlacement(population.Position) { r.placements++ }
func (r *replicator) BeforeDeath(population.Position) { r.deaths++ }

type replicatorPlugin struct {
	mod *replicator
}

func (p *replicatorPlugin) Register(r *registry.Registry) {
	r.Register(&registry.Entry{
		Type: "Replicator",
		Desc: "Replicates a random organism each update.",
		New: func(name string, _ any) (module.Module, error) {
			p.mod = &replicator{Base: module.NewBase(name, "Replicator", "Replicates a random organism each update.")}
			return p.mod, nil
		},
	})
}

// Test for: a plugin registered by the caller receives signals through the
// same bus as the built-in modules, and local growth reaches a steady state
// where every placement beyond capacity is matched by a death.
func TestModuleContract_GrowthSteadyState(t *testing.T) {
	// --- Arrange ---
	script := `
random_seed = 3
population "main" { size = 10 }
module "BitsOrg" "bits" { length = 8 }
module "GrowthPlacement" "grow" {
  pop          = "main"
  neighborhood = "ring"
}
module "Replicator" "rep" {}
event "start" {
  inject {
    pop  = "main"
    type = "bits"
  }
}
event "exit" {
  print = "${count(main)}"
}
run { updates = 200 }
`
	plugin := &replicatorPlugin{}

	// --- Act ---
	res := testutil.RunScript(t, map[string]string{"main.hcl": script}, app.Config{}, plugin)

	// --- Assert ---
	require.NoError(t, res.Err, res.LogOutput)
	require.NotNil(t, plugin.mod)

	living, err := strconv.Atoi(strings.TrimSpace(res.Output))
	require.NoError(t, err)
	require.Equal(t, 10, living, "200 births on a ring of 10 should fill it")

	// One injection plus one birth per update; Close kills the survivors.
	require.Equal(t, 201, plugin.mod.placements)
	require.Equal(t, plugin.mod.placements, plugin.mod.deaths)
}

// Test for: module types registered by the caller are listed next to the
// built-in ones.
func TestModuleContract_ListIncludesPlugins(t *testing.T) {
	// --- Arrange ---
	cfg := app.Config{ListModules: true}

	// --- Act ---
	res := testutil.RunScript(t, nil, cfg, &replicatorPlugin{})

	// --- Assert ---
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "Replicator")
	require.Contains(t, res.Output, "BitsOrg")
}
