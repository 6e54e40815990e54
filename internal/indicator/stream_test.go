package indicator_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/spinline/internal/indicator"
)

func TestWriterStreamWritesCarriageReturn(testInstance *testing.T) {
	var buffer bytes.Buffer
	stream := indicator.NewWriterStream(&buffer, true)

	require.NoError(testInstance, stream.MoveToLineStart())
	_, writeError := stream.Write([]byte("frame"))
	require.NoError(testInstance, writeError)

	require.Equal(testInstance, "\rframe", buffer.String())
	require.True(testInstance, stream.Interactive())
}

func TestFileStreamDetectsNonTerminalFiles(testInstance *testing.T) {
	filePath := filepath.Join(testInstance.TempDir(), "indicator.log")
	file, createError := os.Create(filePath)
	require.NoError(testInstance, createError)
	testInstance.Cleanup(func() {
		require.NoError(testInstance, file.Close())
	})

	stream := indicator.NewFileStream(file)
	require.False(testInstance, stream.Interactive())

	require.NoError(testInstance, stream.MoveToLineStart())
	_, writeError := stream.Write([]byte("frame"))
	require.NoError(testInstance, writeError)

	content, readError := os.ReadFile(filePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "\rframe", string(content))
}

func TestFileStreamWithoutFileDiscardsOutput(testInstance *testing.T) {
	stream := indicator.NewFileStream(nil)
	require.False(testInstance, stream.Interactive())

	writtenBytes, writeError := stream.Write([]byte("frame"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 5, writtenBytes)
}
