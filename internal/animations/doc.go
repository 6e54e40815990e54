// Package animations exposes the indicator animation catalog on the command line.
package animations
