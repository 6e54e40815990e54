// Package execshell runs external commands on behalf of the CLI.
//
// ShellExecutor pairs a CommandRunner with structured logging and lifecycle
// notifications delivered to a CommandEventObserver, which is how the status
// indicator learns that a command started and finished. OSCommandRunner is the
// default runner backed by os/exec.
package execshell
