package indicator

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/temirov/spinline/internal/utils"
)

// ANSI control sequences emitted by the indicator.
const (
	CursorHideSequence    = "\033[?25l"
	CursorShowSequence    = "\033[?25h"
	ClearLineSequence     = "\033[K"
	lineStartSequenceText = "\r"
)

// OutputStream is the destination an indicator redraws.
type OutputStream interface {
	io.Writer
	// MoveToLineStart returns the cursor to column 0 of the current line.
	MoveToLineStart() error
	// Interactive reports whether the stream is attached to a terminal.
	Interactive() bool
}

// WriterStream adapts an io.Writer with a fixed interactivity flag.
type WriterStream struct {
	writer      io.Writer
	interactive bool
}

// NewWriterStream wraps writer, treating it as a terminal when interactive is true.
func NewWriterStream(writer io.Writer, interactive bool) *WriterStream {
	return &WriterStream{writer: writer, interactive: interactive}
}

// NewFileStream wraps file and detects whether it is attached to a terminal.
func NewFileStream(file *os.File) *WriterStream {
	if file == nil {
		return NewWriterStream(io.Discard, false)
	}
	return NewWriterStream(utils.NewFlushingWriter(file), term.IsTerminal(int(file.Fd())))
}

// Write forwards data to the wrapped writer.
func (stream *WriterStream) Write(data []byte) (int, error) {
	return stream.writer.Write(data)
}

// MoveToLineStart writes a carriage return.
func (stream *WriterStream) MoveToLineStart() error {
	_, writeError := io.WriteString(stream.writer, lineStartSequenceText)
	return writeError
}

// Interactive reports the interactivity flag captured at construction.
func (stream *WriterStream) Interactive() bool {
	return stream.interactive
}
