package trait_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/evogrid/internal/trait"
	"github.com/zclconf/go-cty/cty"
)

func lockedLayout(t *testing.T) *trait.Layout {
	t.Helper()
	l := trait.NewLayout()
	_, err := l.Add("fitness", cty.Number, cty.NumberIntVal(1))
	require.NoError(t, err)
	_, err = l.Add("name", cty.String, cty.NilVal)
	require.NoError(t, err)
	l.Lock()
	return l
}

func TestStore_TypeChecked(t *testing.T) {
	l := lockedLayout(t)
	s := l.NewStore()
	require.True(t, s.SameLayout(l))

	v, err := s.Lookup("fitness")
	require.NoError(t, err)
	require.True(t, v.RawEquals(cty.NumberIntVal(1)))

	require.NoError(t, s.SetNamed("fitness", cty.NumberFloatVal(2.5)))
	f, err := s.Float(0)
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	require.ErrorIs(t, s.SetNamed("fitness", cty.StringVal("high")), trait.ErrType)
	require.ErrorIs(t, s.SetNamed("missing", cty.Zero), trait.ErrUnknown)

	name, err := s.String(1)
	require.NoError(t, err)
	require.Equal(t, "", name)
	_, err = s.String(0)
	require.ErrorIs(t, err, trait.ErrType)
}

func TestStore_CloneIsIndependent(t *testing.T) {
	l := lockedLayout(t)
	a := l.NewStore()
	b := a.Clone()
	require.NoError(t, b.SetFloat(0, 9))

	f, err := a.Float(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, f)
}

func TestNewStore_RequiresLock(t *testing.T) {
	l := trait.NewLayout()
	require.Panics(t, func() { l.NewStore() })
}

func TestLayout_Inherit(t *testing.T) {
	l := trait.NewLayout()
	_, err := l.Add("fitness", cty.Number, cty.Zero)
	require.NoError(t, err)
	l.Lock()

	p1, p2 := l.NewStore(), l.NewStore()
	require.NoError(t, p1.SetFloat(0, 4))
	require.NoError(t, p2.SetFloat(0, 8))

	child := l.NewStore()
	require.NoError(t, child.SetFloat(0, 100))
	l.Inherit(child, p1, p2)
	f, _ := child.Float(0)
	require.Equal(t, 0.0, f, "default policy resets the trait")
}

func TestManager_InitPolicies(t *testing.T) {
	cases := map[trait.Init]float64{
		trait.InitFirst:   4,
		trait.InitAverage: 6,
		trait.InitMinimum: 4,
		trait.InitMaximum: 8,
	}
	for policy, want := range cases {
		t.Run(policy.String(), func(t *testing.T) {
			m, _ := newManager()
			info, err := m.AddTrait("a", trait.Shared, "energy", "", cty.Number, cty.Zero)
			require.NoError(t, err)
			info.SetInit(policy)
			l := trait.NewLayout()
			require.NoError(t, m.RegisterAll(l))
			m.Lock()

			p1, p2, child := l.NewStore(), l.NewStore(), l.NewStore()
			require.NoError(t, p1.SetFloat(0, 4))
			require.NoError(t, p2.SetFloat(0, 8))
			l.Inherit(child, p1, p2)
			got, err := child.Float(0)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestInitAverage_OpposingInfinitiesUseDefault(t *testing.T) {
	m, _ := newManager()
	info, err := m.AddTrait("a", trait.Shared, "energy", "", cty.Number, cty.NumberIntVal(2))
	require.NoError(t, err)
	info.SetInit(trait.InitAverage)
	l := trait.NewLayout()
	require.NoError(t, m.RegisterAll(l))
	m.Lock()

	p1, p2, child := l.NewStore(), l.NewStore(), l.NewStore()
	require.NoError(t, p1.SetFloat(0, math.Inf(1)))
	require.NoError(t, p2.SetFloat(0, math.Inf(-1)))
	require.NotPanics(t, func() { l.Inherit(child, p1, p2) })
	got, err := child.Float(0)
	require.NoError(t, err)
	require.Equal(t, 2.0, got)

	l.Inherit(child, p1, p1)
	got, err = child.Float(0)
	require.NoError(t, err)
	require.True(t, math.IsInf(got, 1))
}

func TestLayout_RecordRepro(t *testing.T) {
	m, _ := newManager()
	info, err := m.AddTrait("a", trait.Shared, "energy", "", cty.Number, cty.Zero)
	require.NoError(t, err)
	info.SetArchive(trait.ArchiveLastRepro)
	l := trait.NewLayout()
	require.NoError(t, m.RegisterAll(l))
	m.Lock()

	parent := l.NewStore()
	require.NoError(t, parent.SetNamed("energy", cty.NumberIntVal(3)))
	l.RecordRepro(parent)
	v, err := parent.Lookup("last_energy")
	require.NoError(t, err)
	require.True(t, v.RawEquals(cty.NumberIntVal(3)))
}

func TestLayout_RecordBirth(t *testing.T) {
	m, _ := newManager()
	info, err := m.AddTrait("a", trait.Owned, "score", "", cty.Number, cty.Zero)
	require.NoError(t, err)
	info.SetArchive(trait.ArchiveAtBirth)
	_, err = m.AddTrait("b", trait.Required, "score", "", cty.Number, cty.NilVal)
	require.NoError(t, err)
	l := trait.NewLayout()
	require.NoError(t, m.RegisterAll(l))
	m.Lock()

	s := l.NewStore()
	require.NoError(t, s.SetNamed("score", cty.NumberIntVal(9)))
	l.RecordBirth(s)
	require.NoError(t, s.SetNamed("score", cty.NumberIntVal(1)))

	v, err := s.Lookup("birth_score")
	require.NoError(t, err)
	require.True(t, v.RawEquals(cty.NumberIntVal(9)))

	child := l.NewStore()
	l.Inherit(child, s)
	v, err = child.Lookup("birth_score")
	require.NoError(t, err)
	require.True(t, v.RawEquals(cty.Zero))
}
