package utils_test

import (
	"bufio"
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/spinline/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriter(&destination)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := flushingWriter.Write([]byte("frame"))
	require.NoError(testInstance, writeError)

	require.Equal(testInstance, "frame", destination.String())
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}

func TestSharedFlushingWriterReturnsOneWriterPerFile(testInstance *testing.T) {
	require.Same(testInstance, utils.SharedFlushingWriter(os.Stderr), utils.SharedFlushingWriter(os.Stderr))
	require.Same(testInstance, utils.SharedFlushingWriter(os.Stderr), utils.NewFlushingWriter(os.Stderr))
	require.NotSame(testInstance, utils.SharedFlushingWriter(os.Stderr), utils.SharedFlushingWriter(os.Stdout))
	require.NoError(testInstance, utils.SharedFlushingWriter(os.Stderr).Sync())
}

func TestFlushingWriterSerializesConcurrentWrites(testInstance *testing.T) {
	var destination bytes.Buffer
	flushingWriter := utils.NewFlushingWriter(&destination)

	const writerCount = 16
	var waitGroup sync.WaitGroup
	for writerIndex := 0; writerIndex < writerCount; writerIndex++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			_, _ = flushingWriter.Write([]byte("ab"))
		}()
	}
	waitGroup.Wait()

	require.Equal(testInstance, bytes.Repeat([]byte("ab"), writerCount), destination.Bytes())
}
