// Package indicator renders a single-line status animation: a rotating glyph
// followed by an optional label, redrawn in place on an output stream.
//
// An Indicator owns one scheduled tick at a time, hides the terminal cursor
// while it runs on interactive streams, and restores the cursor when stopped.
// Non-interactive streams never receive cursor or line-clearing control
// sequences. Timing and output are injected through the Scheduler and
// OutputStream collaborators so the tick loop can be driven by a fake clock.
package indicator
