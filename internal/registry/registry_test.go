package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
)

type plain struct{ module.Base }

type plugin struct{}

func (plugin) Register(r *registry.Registry) {
	type input struct {
		Size int `hcl:"size,optional"`
	}
	r.Register(&registry.Entry{
		Type:     "Plain",
		Desc:     "does nothing",
		NewInput: func() any { return &input{Size: 4} },
		New: func(name string, in any) (module.Module, error) {
			_ = in.(*input)
			return &plain{Base: module.NewBase(name, "Plain", "does nothing")}, nil
		},
	})
}

func TestRegistry(t *testing.T) {
	r := registry.New(plugin{})
	require.Equal(t, []string{"Plain"}, r.Types())

	e, ok := r.Lookup("Plain")
	require.True(t, ok)
	m, err := r.Build("Plain", "p1", e.NewInput())
	require.NoError(t, err)
	require.Equal(t, "p1", m.Name())
	require.Equal(t, "Plain", m.Type())

	_, err = r.Build("Nope", "x", nil)
	require.Error(t, err)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := registry.New(plugin{})
	require.Panics(t, func() { plugin{}.Register(r) })
}
