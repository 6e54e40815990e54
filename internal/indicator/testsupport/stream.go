package testsupport

import (
	"strings"
	"sync"

	"github.com/temirov/spinline/internal/indicator"
)

const lineStartMarkerConstant = "\r"

// RecordingStream captures every write an indicator makes.
type RecordingStream struct {
	mutex       sync.Mutex
	interactive bool
	segments    []string
}

// NewRecordingStream constructs a stream reporting the provided interactivity.
func NewRecordingStream(interactive bool) *RecordingStream {
	return &RecordingStream{interactive: interactive}
}

// Write records data as one segment.
func (stream *RecordingStream) Write(data []byte) (int, error) {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.segments = append(stream.segments, string(data))
	return len(data), nil
}

// MoveToLineStart records a carriage return segment.
func (stream *RecordingStream) MoveToLineStart() error {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.segments = append(stream.segments, lineStartMarkerConstant)
	return nil
}

// Interactive reports the configured interactivity.
func (stream *RecordingStream) Interactive() bool {
	return stream.interactive
}

// Segments returns a copy of every recorded segment.
func (stream *RecordingStream) Segments() []string {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	duplicated := make([]string, len(stream.segments))
	copy(duplicated, stream.segments)
	return duplicated
}

// Renders returns the rendered lines, excluding control sequences and carriage returns.
func (stream *RecordingStream) Renders() []string {
	renders := make([]string, 0)
	for _, segment := range stream.Segments() {
		switch segment {
		case lineStartMarkerConstant, indicator.CursorHideSequence, indicator.CursorShowSequence, indicator.ClearLineSequence:
			continue
		}
		renders = append(renders, segment)
	}
	return renders
}

// LastRender returns the most recent rendered line, or an empty string when nothing rendered.
func (stream *RecordingStream) LastRender() string {
	renders := stream.Renders()
	if len(renders) == 0 {
		return ""
	}
	return renders[len(renders)-1]
}

// Count reports how many recorded segments equal sequence.
func (stream *RecordingStream) Count(sequence string) int {
	count := 0
	for _, segment := range stream.Segments() {
		if segment == sequence {
			count++
		}
	}
	return count
}

// Transcript joins every segment in write order.
func (stream *RecordingStream) Transcript() string {
	return strings.Join(stream.Segments(), "")
}
