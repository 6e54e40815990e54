// Package cli constructs the spinline command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the status indicator.
package cli
