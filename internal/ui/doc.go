// Package ui provides helpers for human-readable console output.
//
// Command lifecycle events are translated into concise messages, and the
// IndicatorCommandEventObserver keeps a status indicator animating while a
// command runs so the console message lands on a clean line afterwards.
package ui
