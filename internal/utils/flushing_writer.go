package utils

import (
	"io"
	"os"
	"sync"
)

var (
	sharedWritersMutex sync.Mutex
	sharedWriters      = map[*os.File]*FlushingWriter{}
)

// FlushingWriter serializes writes to an underlying writer and flushes it after each write when supported.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps the provided writer and flushes it after each write when the writer supports flushing.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if file, isFile := writer.(*os.File); isFile {
		return SharedFlushingWriter(file)
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// SharedFlushingWriter returns the process-wide writer for file so the indicator and loggers
// writing to the same terminal never interleave partial writes.
func SharedFlushingWriter(file *os.File) *FlushingWriter {
	sharedWritersMutex.Lock()
	defer sharedWritersMutex.Unlock()

	if existingWriter, exists := sharedWriters[file]; exists {
		return existingWriter
	}
	createdWriter := &FlushingWriter{writer: file}
	sharedWriters[file] = createdWriter
	return createdWriter
}

// Write delegates to the underlying writer and flushes it when possible.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := flushingWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}

// Sync satisfies zapcore.WriteSyncer; terminals and pipes are unbuffered so nothing is pending.
func (flushingWriter *FlushingWriter) Sync() error {
	return nil
}
