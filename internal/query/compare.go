package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/trait"
)

var ops = []string{"==", "!=", "<=", ">=", "<", ">"}

func splitOp(filter string) (op, rhs string, ok bool) {
	for _, o := range ops {
		if strings.HasPrefix(filter, o) {
			return o, strings.TrimSpace(filter[len(o):]), true
		}
	}
	return "", "", false
}

// compare counts the rows whose value stands in relation op to rhs. rhs is
// a number, a trait name, or (for strings) a literal, optionally quoted.
func compare(op, rhs string, typ cty.Type, layout *trait.Layout) (Summary, error) {
	if rhs == "" {
		return nil, fmt.Errorf("%w: %q has nothing to compare against", ErrUnknownFilter, op)
	}
	numeric := trait.IsNumeric(typ)
	if !numeric && op != "==" && op != "!=" {
		return nil, fmt.Errorf("%w: %q on %s", ErrNotNumeric, op, typ.FriendlyName())
	}

	var other func(Row) (cty.Value, error)
	switch {
	case layout != nil && layout.Has(rhs):
		other = func(r Row) (cty.Value, error) {
			if r.Traits == nil {
				return cty.NilVal, fmt.Errorf("%w %q", trait.ErrUnknown, rhs)
			}
			return r.Traits.Lookup(rhs)
		}
	case numeric:
		f, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is neither a number nor a trait", ErrUnknownFilter, rhs)
		}
		lit := cty.NumberFloatVal(f)
		other = func(Row) (cty.Value, error) { return lit, nil }
	default:
		if unq, err := strconv.Unquote(rhs); err == nil {
			rhs = unq
		}
		lit := cty.StringVal(rhs)
		other = func(Row) (cty.Value, error) { return lit, nil }
	}

	return func(rows []Row) (cty.Value, error) {
		count := 0
		for _, r := range rows {
			b, err := other(r)
			if err != nil {
				return cty.NilVal, err
			}
			match, err := holds(op, r.Value, b, numeric)
			if err != nil {
				return cty.NilVal, err
			}
			if match {
				count++
			}
		}
		return cty.NumberIntVal(int64(count)), nil
	}, nil
}

func holds(op string, a, b cty.Value, numeric bool) (bool, error) {
	if !numeric {
		eq := trait.Format(a) == trait.Format(b)
		return eq == (op == "=="), nil
	}
	x, err := trait.ToFloat(a)
	if err != nil {
		return false, err
	}
	y, err := trait.ToFloat(b)
	if err != nil {
		return false, err
	}
	switch op {
	case "==":
		return x == y, nil
	case "!=":
		return x != y, nil
	case "<":
		return x < y, nil
	case ">":
		return x > y, nil
	case "<=":
		return x <= y, nil
	}
	return x >= y, nil
}
