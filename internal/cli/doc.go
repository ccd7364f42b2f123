// Package cli parses command-line arguments, validates them and handles
// process-level concerns like exit codes. It translates flags into the
// application's configuration.
package cli
