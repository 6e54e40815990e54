// Package runner implements the run command: it executes an external command
// while a status indicator animates on the terminal, refreshing the label with
// the elapsed time, and then relays the captured output.
package runner
