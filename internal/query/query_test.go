package query_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/query"
	"github.com/vk/evogrid/internal/trait"
)

func numRows(vals ...float64) []query.Row {
	rows := make([]query.Row, len(vals))
	for i, v := range vals {
		rows[i] = query.Row{Value: cty.NumberFloatVal(v)}
	}
	return rows
}

func run(t *testing.T, filter string, typ cty.Type, rows []query.Row) cty.Value {
	t.Helper()
	fn, err := query.Build(filter, typ, nil)
	require.NoError(t, err)
	v, err := fn(rows)
	require.NoError(t, err)
	return v
}

func asFloat(t *testing.T, v cty.Value) float64 {
	t.Helper()
	f, err := trait.ToFloat(v)
	require.NoError(t, err)
	return f
}

func TestNumericFilters(t *testing.T) {
	rows := numRows(3, 1, 4, 1, 5)
	cases := map[string]float64{
		"":         3,
		"2":        4,
		"mean":     2.8,
		"ave":      2.8,
		"max":      5,
		"max_id":   4,
		"min":      1,
		"min_id":   1,
		"unique":   4,
		"richness": 4,
		"mode":     1,
		"median":   3,
		"sum":      14,
		"total":    14,
		"variance": 2.56,
		"==1":      2,
		"!=1":      3,
		">=3":      3,
		"<3":       2,
		">4":       1,
		"<=1":      2,
	}
	for filter, want := range cases {
		t.Run(filter, func(t *testing.T) {
			require.InDelta(t, want, asFloat(t, run(t, filter, cty.Number, rows)), 1e-9)
		})
	}
	require.InDelta(t, math.Sqrt(2.56), asFloat(t, run(t, "stddev", cty.Number, rows)), 1e-9)
}

func TestEntropy(t *testing.T) {
	require.InDelta(t, 1.0, asFloat(t, run(t, "entropy", cty.Number, numRows(0, 1, 0, 1))), 1e-9)
	require.Zero(t, asFloat(t, run(t, "entropy", cty.Number, numRows(7, 7, 7))))
}

func TestEmptyRows(t *testing.T) {
	require.Zero(t, asFloat(t, run(t, "mean", cty.Number, nil)))
	require.Zero(t, asFloat(t, run(t, "max", cty.Number, nil)))
	require.Equal(t, -1.0, asFloat(t, run(t, "max_id", cty.Number, nil)))
	require.Zero(t, asFloat(t, run(t, "unique", cty.Number, nil)))

	require.Zero(t, asFloat(t, run(t, "", cty.Number, nil)))
	require.Zero(t, asFloat(t, run(t, "3", cty.Number, nil)))
	require.Equal(t, cty.StringVal(""), run(t, "", cty.String, nil))

	fn, err := query.Build("3", cty.Number, nil)
	require.NoError(t, err)
	_, err = fn([]query.Row{{Value: cty.Zero}})
	require.ErrorIs(t, err, query.ErrIndex)
}

func TestMode_TieGoesToFirstSeen(t *testing.T) {
	rows := func(vals ...string) []query.Row {
		out := make([]query.Row, len(vals))
		for i, v := range vals {
			out[i] = query.Row{Value: cty.StringVal(v)}
		}
		return out
	}
	require.Equal(t, cty.StringVal("a"), run(t, "mode", cty.String, rows("a", "b", "b", "a")))
	require.Equal(t, cty.StringVal("b"), run(t, "mode", cty.String, rows("b", "a", "a", "b")))
	require.Equal(t, cty.StringVal("c"), run(t, "mode", cty.String, rows("a", "c", "c", "b", "c", "a")))
}

func TestStringFilters(t *testing.T) {
	rows := []query.Row{
		{Value: cty.StringVal("ab")},
		{Value: cty.StringVal("cd")},
		{Value: cty.StringVal("ab")},
	}
	require.Equal(t, cty.StringVal("ab"), run(t, "mode", cty.String, rows))
	require.Equal(t, cty.StringVal("cd"), run(t, "1", cty.String, rows))
	require.Equal(t, 2.0, asFloat(t, run(t, "unique", cty.String, rows)))
	require.Equal(t, 2.0, asFloat(t, run(t, `=="ab"`, cty.String, rows)))
	require.Equal(t, 1.0, asFloat(t, run(t, "!=ab", cty.String, rows)))

	_, err := query.Build("mean", cty.String, nil)
	require.ErrorIs(t, err, query.ErrNotNumeric)
	_, err = query.Build("<ab", cty.String, nil)
	require.ErrorIs(t, err, query.ErrNotNumeric)
}

func TestUnknownFilter(t *testing.T) {
	_, err := query.Build("bogus", cty.Number, nil)
	require.ErrorIs(t, err, query.ErrUnknownFilter)
	_, err = query.Build(">", cty.Number, nil)
	require.ErrorIs(t, err, query.ErrUnknownFilter)
	_, err = query.Build(">nope", cty.Number, nil)
	require.ErrorIs(t, err, query.ErrUnknownFilter)
	_, err = query.Build("-1", cty.Number, nil)
	require.ErrorIs(t, err, query.ErrIndex)
}

func TestCompareAgainstTrait(t *testing.T) {
	l := trait.NewLayout()
	_, err := l.Add("score", cty.Number, cty.Zero)
	require.NoError(t, err)
	_, err = l.Add("target", cty.Number, cty.Zero)
	require.NoError(t, err)
	l.Lock()

	var rows []query.Row
	for _, pair := range [][2]float64{{1, 2}, {3, 3}, {5, 4}} {
		s := l.NewStore()
		require.NoError(t, s.SetFloat(0, pair[0]))
		require.NoError(t, s.SetFloat(1, pair[1]))
		rows = append(rows, query.Row{Value: s.Get(0), Traits: s})
	}
	fn, err := query.Build(">=target", cty.Number, l)
	require.NoError(t, err)
	v, err := fn(rows)
	require.NoError(t, err)
	require.Equal(t, 2.0, asFloat(t, v))
}
