// Package notify collects the errors and warnings raised while a run is
// configured and executed.
//
// Entries are kept in the order they were reported as hcl.Diagnostics, so
// configuration problems found by the HCL loader and problems found by the
// trait manager or the controller end up in a single list. Setup is
// considered successful only when the collector holds no errors.
package notify

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Callback receives the message of a newly reported entry.
type Callback func(msg string)

// Collector is an ordered list of (severity, message) entries. Until it is
// activated, entries are only buffered; Activate replays them through the
// callbacks and every later entry is forwarded immediately.
type Collector struct {
	diags     hcl.Diagnostics
	onError   Callback
	onWarning Callback
	active    bool
	flushed   int
}

// New creates a collector. Either callback may be nil.
func New(onError, onWarning Callback) *Collector {
	return &Collector{onError: onError, onWarning: onWarning}
}

// AddError records an error built from a format string.
func (c *Collector) AddError(format string, args ...any) {
	c.Append(hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf(format, args...),
	}})
}

// AddWarning records a warning built from a format string.
func (c *Collector) AddWarning(format string, args ...any) {
	c.Append(hcl.Diagnostics{{
		Severity: hcl.DiagWarning,
		Summary:  fmt.Sprintf(format, args...),
	}})
}

// Append records diagnostics produced elsewhere, such as by the HCL parser.
func (c *Collector) Append(diags hcl.Diagnostics) {
	c.diags = append(c.diags, diags...)
	if c.active {
		c.flush()
	}
}

// Activate starts forwarding entries to the callbacks, replaying anything
// that was buffered before.
func (c *Collector) Activate() {
	c.active = true
	c.flush()
}

// Active reports whether entries are being forwarded.
func (c *Collector) Active() bool { return c.active }

func (c *Collector) flush() {
	for c.flushed < len(c.diags) {
		d := c.diags[c.flushed]
		c.flushed++
		switch d.Severity {
		case hcl.DiagError:
			if c.onError != nil {
				c.onError(message(d))
			}
		case hcl.DiagWarning:
			if c.onWarning != nil {
				c.onWarning(message(d))
			}
		}
	}
}

// NumErrors returns the number of error entries.
func (c *Collector) NumErrors() int { return c.count(hcl.DiagError) }

// NumWarnings returns the number of warning entries.
func (c *Collector) NumWarnings() int { return c.count(hcl.DiagWarning) }

func (c *Collector) count(sev hcl.DiagnosticSeverity) int {
	n := 0
	for _, d := range c.diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Diagnostics returns every entry in report order.
func (c *Collector) Diagnostics() hcl.Diagnostics {
	out := make(hcl.Diagnostics, len(c.diags))
	copy(out, c.diags)
	return out
}

// Errors returns the messages of all error entries in report order.
func (c *Collector) Errors() []string { return c.messages(hcl.DiagError) }

// Warnings returns the messages of all warning entries in report order.
func (c *Collector) Warnings() []string { return c.messages(hcl.DiagWarning) }

func (c *Collector) messages(sev hcl.DiagnosticSeverity) []string {
	var out []string
	for _, d := range c.diags {
		if d.Severity == sev {
			out = append(out, message(d))
		}
	}
	return out
}

// Err joins every error entry into a single error, or returns nil.
func (c *Collector) Err() error {
	var errs []error
	for _, msg := range c.Errors() {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

func message(d *hcl.Diagnostic) string {
	msg := d.Summary
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	if d.Subject != nil {
		msg = d.Subject.String() + ": " + msg
	}
	return msg
}
