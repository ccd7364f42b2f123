// Package app wires a run together: it loads run scripts, builds the
// controller with its populations and modules, schedules script events and
// drives the run. It is decoupled from the CLI entrypoint.
package app
