// Package query reduces the values of a trait equation over a collection of
// organisms to a single summary value.
package query

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/trait"
)

var (
	// ErrUnknownFilter is returned for a filter keyword that is not recognized.
	ErrUnknownFilter = errors.New("unknown trait filter")
	// ErrNotNumeric is returned when a numeric filter is applied to strings.
	ErrNotNumeric = errors.New("filter requires a numeric trait")
	// ErrIndex is returned when an identity filter indexes past the rows.
	ErrIndex = errors.New("trait filter index out of range")
)

// Row is one organism's evaluated value plus its traits, for comparisons
// against another trait.
type Row struct {
	Value  cty.Value
	Traits *trait.Store
}

// Summary reduces rows to one value.
type Summary func(rows []Row) (cty.Value, error)

// Build returns the reducer named by filter for values of type typ. layout
// is used to resolve trait names on the right side of comparisons and may
// be nil.
func Build(filter string, typ cty.Type, layout *trait.Layout) (Summary, error) {
	filter = strings.TrimSpace(filter)
	numeric := trait.IsNumeric(typ)

	if filter == "" {
		return identity(0, typ), nil
	}
	if idx, err := strconv.Atoi(filter); err == nil {
		if idx < 0 {
			return nil, fmt.Errorf("%w: negative index %d", ErrIndex, idx)
		}
		return identity(idx, typ), nil
	}
	if op, rhs, ok := splitOp(filter); ok {
		return compare(op, rhs, typ, layout)
	}

	switch strings.ToLower(filter) {
	case "unique", "richness":
		return richness, nil
	case "mode", "dom", "dominant":
		return mode(typ), nil
	}

	if !numeric {
		if _, known := numericFilters[strings.ToLower(filter)]; known {
			return nil, fmt.Errorf("%w: %q on %s", ErrNotNumeric, filter, typ.FriendlyName())
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownFilter, filter)
	}
	fn, ok := numericFilters[strings.ToLower(filter)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFilter, filter)
	}
	return func(rows []Row) (cty.Value, error) {
		vals, err := floats(rows)
		if err != nil {
			return cty.NilVal, err
		}
		return fn(vals), nil
	}, nil
}

// Keywords lists the named filters, for help output.
func Keywords() []string {
	out := []string{"unique", "richness", "mode", "dom", "dominant"}
	for k := range numericFilters {
		out = append(out, k)
	}
	sort.Strings(out[5:])
	return out
}

var numericFilters = map[string]func([]float64) cty.Value{
	"min":      func(v []float64) cty.Value { return num(extreme(v, less)) },
	"max":      func(v []float64) cty.Value { return num(extreme(v, greater)) },
	"min_id":   func(v []float64) cty.Value { return cty.NumberIntVal(int64(extremeID(v, less))) },
	"max_id":   func(v []float64) cty.Value { return cty.NumberIntVal(int64(extremeID(v, greater))) },
	"ave":      func(v []float64) cty.Value { return num(mean(v)) },
	"mean":     func(v []float64) cty.Value { return num(mean(v)) },
	"median":   func(v []float64) cty.Value { return num(median(v)) },
	"variance": func(v []float64) cty.Value { return num(variance(v)) },
	"stddev":   func(v []float64) cty.Value { return num(math.Sqrt(variance(v))) },
	"sum":      func(v []float64) cty.Value { return num(sum(v)) },
	"total":    func(v []float64) cty.Value { return num(sum(v)) },
	"entropy":  func(v []float64) cty.Value { return num(entropy(v)) },
}

func num(f float64) cty.Value { return cty.NumberFloatVal(f) }

// identity picks row idx. No rows at all gives the zero value, like the
// other reducers; an index past a non-empty result is an error.
func identity(idx int, typ cty.Type) Summary {
	return func(rows []Row) (cty.Value, error) {
		if len(rows) == 0 {
			return trait.ZeroValue(typ), nil
		}
		if idx >= len(rows) {
			return cty.NilVal, fmt.Errorf("%w: %d of %d", ErrIndex, idx, len(rows))
		}
		return rows[idx].Value, nil
	}
}

func richness(rows []Row) (cty.Value, error) {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[key(r.Value)] = struct{}{}
	}
	return cty.NumberIntVal(int64(len(seen))), nil
}

// mode returns the most common value. Ties go to the value seen first.
func mode(typ cty.Type) Summary {
	return func(rows []Row) (cty.Value, error) {
		if len(rows) == 0 {
			return trait.ZeroValue(typ), nil
		}
		counts := make(map[string]int, len(rows))
		for _, r := range rows {
			counts[key(r.Value)]++
		}
		best, bestCount := rows[0].Value, 0
		for _, r := range rows {
			if n := counts[key(r.Value)]; n > bestCount {
				best, bestCount = r.Value, n
			}
		}
		return best, nil
	}
}

func key(v cty.Value) string { return trait.Format(v) }

func floats(rows []Row) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		f, err := trait.ToFloat(r.Value)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func less(a, b float64) bool    { return a < b }
func greater(a, b float64) bool { return a > b }

func extremeID(v []float64, better func(a, b float64) bool) int {
	if len(v) == 0 {
		return -1
	}
	id := 0
	for i := 1; i < len(v); i++ {
		if better(v[i], v[id]) {
			id = i
		}
	}
	return id
}

func extreme(v []float64, better func(a, b float64) bool) float64 {
	if id := extremeID(v, better); id >= 0 {
		return v[id]
	}
	return 0
}

func sum(v []float64) float64 {
	total := 0.0
	for _, f := range v {
		total += f
	}
	return total
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return sum(v) / float64(len(v))
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// variance is the population variance.
func variance(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := mean(v)
	total := 0.0
	for _, f := range v {
		total += (f - m) * (f - m)
	}
	return total / float64(len(v))
}

// entropy is the Shannon entropy, in bits, of the value distribution.
func entropy(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	for _, f := range v {
		counts[f]++
	}
	n := float64(len(v))
	h := 0.0
	for _, c := range counts {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}
