package notify_test

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/evogrid/internal/notify"
)

func TestCollector_BuffersUntilActivated(t *testing.T) {
	var errs, warns []string
	c := notify.New(
		func(msg string) { errs = append(errs, msg) },
		func(msg string) { warns = append(warns, msg) },
	)

	c.AddError("first %d", 1)
	c.AddWarning("careful")
	require.Empty(t, errs)
	require.Empty(t, warns)

	c.Activate()
	require.Equal(t, []string{"first 1"}, errs)
	require.Equal(t, []string{"careful"}, warns)

	c.AddError("second")
	require.Equal(t, []string{"first 1", "second"}, errs)
	require.Equal(t, 2, c.NumErrors())
	require.Equal(t, 1, c.NumWarnings())
}

func TestCollector_KeepsReportOrder(t *testing.T) {
	c := notify.New(nil, nil)
	c.AddWarning("w1")
	c.AddError("e1")
	c.Append(hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "e2", Detail: "more"}})

	diags := c.Diagnostics()
	require.Len(t, diags, 3)
	require.Equal(t, "w1", diags[0].Summary)
	require.Equal(t, []string{"e1", "e2: more"}, c.Errors())
	require.EqualError(t, c.Err(), "e1\ne2: more")
}

func TestCollector_NoErrors(t *testing.T) {
	c := notify.New(nil, nil)
	c.AddWarning("only a warning")
	require.NoError(t, c.Err())
	require.Zero(t, c.NumErrors())
}
