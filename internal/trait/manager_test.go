package trait_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/evogrid/internal/notify"
	"github.com/vk/evogrid/internal/trait"
	"github.com/zclconf/go-cty/cty"
)

func newManager() (*trait.Manager, *notify.Collector) {
	notes := notify.New(nil, nil)
	return trait.NewManager(notes), notes
}

func TestVerify_ConsistentClaimsShareOneSlot(t *testing.T) {
	m, notes := newManager()
	_, err := m.AddTrait("eval", trait.Generated, "fitness", "score", cty.Number, cty.NumberIntVal(0))
	require.NoError(t, err)
	_, err = m.AddTrait("select", trait.Required, "fitness", "", cty.Number, cty.NilVal)
	require.NoError(t, err)
	_, err = m.AddTrait("archive", trait.Optional, "fitness", "", cty.Number, cty.NilVal)
	require.NoError(t, err)
	_, err = m.AddTrait("org", trait.Owned, "bits", "genome", cty.String, cty.StringVal(""))
	require.NoError(t, err)
	_, err = m.AddTrait("eval", trait.Required, "bits", "", cty.String, cty.NilVal)
	require.NoError(t, err)

	require.True(t, m.Verify())
	require.Zero(t, notes.NumErrors())

	layout := trait.NewLayout()
	require.NoError(t, m.RegisterAll(layout))
	require.Equal(t, 2, layout.Len())
	require.Equal(t, []string{"fitness", "bits"}, layout.Names())

	info, ok := m.Get("fitness")
	require.True(t, ok)
	require.Equal(t, "score", info.Desc())
	require.Equal(t, 3, info.ModuleCount())
	require.Equal(t, trait.Required, info.Access("select"))
	require.Equal(t, trait.Unknown, info.Access("nobody"))
}

func TestVerify_RequiredWithoutProducer(t *testing.T) {
	m, notes := newManager()
	_, err := m.AddTrait("select", trait.Required, "fitness", "", cty.Number, cty.NilVal)
	require.NoError(t, err)
	_, err = m.AddTrait("org", trait.Owned, "bits", "", cty.String, cty.NilVal)
	require.NoError(t, err)

	require.False(t, m.Verify())
	require.Equal(t, 1, notes.NumErrors())
	require.Contains(t, notes.Errors()[0], `"fitness"`)

	layout := trait.NewLayout()
	require.ErrorIs(t, m.RegisterAll(layout), trait.ErrVerify)
	require.False(t, layout.Has("fitness"))
	require.Zero(t, layout.Len())
}

func TestVerify_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		claims []trait.Claim
		want   string
	}{
		{
			name: "type mismatch",
			claims: []trait.Claim{
				{Module: "a", Access: trait.Shared, Type: cty.Number},
				{Module: "b", Access: trait.Shared, Type: cty.String},
			},
			want: "type mismatch",
		},
		{
			name: "private shared with another",
			claims: []trait.Claim{
				{Module: "a", Access: trait.Private, Type: cty.Number},
				{Module: "b", Access: trait.Optional, Type: cty.Number},
			},
			want: "private",
		},
		{
			name: "generated never read",
			claims: []trait.Claim{
				{Module: "a", Access: trait.Generated, Type: cty.Number},
			},
			want: "no module reads it",
		},
		{
			name: "two owners",
			claims: []trait.Claim{
				{Module: "a", Access: trait.Owned, Type: cty.Number},
				{Module: "b", Access: trait.Owned, Type: cty.Number},
			},
			want: "only be written by one module",
		},
		{
			name: "same module twice",
			claims: []trait.Claim{
				{Module: "a", Access: trait.Shared, Type: cty.Number},
				{Module: "a", Access: trait.Shared, Type: cty.Number},
			},
			want: "more than once",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, notes := newManager()
			for _, c := range tc.claims {
				_, err := m.AddTrait(c.Module, c.Access, "x", "", c.Type, cty.NilVal)
				require.NoError(t, err)
			}
			require.False(t, m.Verify())
			require.NotEmpty(t, notes.Errors())
			require.Contains(t, notes.Errors()[0], tc.want)
		})
	}
}

func TestVerify_ReportsEveryConflict(t *testing.T) {
	m, notes := newManager()
	_, _ = m.AddTrait("a", trait.Required, "x", "", cty.Number, cty.NilVal)
	_, _ = m.AddTrait("a", trait.Required, "y", "", cty.Number, cty.NilVal)
	_, _ = m.AddTrait("b", trait.Generated, "z", "", cty.Number, cty.NilVal)

	require.False(t, m.Verify())
	require.Equal(t, 3, notes.NumErrors())
}

func TestVerify_OptionalOnlyIsDropped(t *testing.T) {
	m, notes := newManager()
	_, err := m.AddTrait("a", trait.Optional, "maybe", "", cty.Number, cty.NilVal)
	require.NoError(t, err)

	require.True(t, m.Verify())
	layout := trait.NewLayout()
	require.NoError(t, m.RegisterAll(layout))
	require.False(t, layout.Has("maybe"))
	require.Zero(t, notes.NumErrors())
}

func TestLock_RejectsLateClaims(t *testing.T) {
	m, _ := newManager()
	_, err := m.AddTrait("a", trait.Shared, "x", "", cty.Number, cty.NilVal)
	require.NoError(t, err)
	layout := trait.NewLayout()
	require.NoError(t, m.RegisterAll(layout))
	m.Lock()

	require.True(t, layout.Locked())
	_, err = m.AddTrait("b", trait.Shared, "y", "", cty.Number, cty.NilVal)
	require.ErrorIs(t, err, trait.ErrLocked)
	_, err = layout.Add("y", cty.Number, cty.NilVal)
	require.ErrorIs(t, err, trait.ErrLocked)
}

func TestRegisterAll_ArchiveCompanions(t *testing.T) {
	m, _ := newManager()
	info, err := m.AddTrait("a", trait.Shared, "energy", "", cty.Number, cty.NumberIntVal(5))
	require.NoError(t, err)
	info.SetArchive(trait.ArchiveAtBirth)

	layout := trait.NewLayout()
	require.NoError(t, m.RegisterAll(layout))
	require.Equal(t, []string{"energy", "birth_energy"}, layout.Names())
	require.True(t, layout.Slot(0).Default.RawEquals(cty.NumberIntVal(5)))
}
