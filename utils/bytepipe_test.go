package utils

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentReadWrites_BP(t *testing.T) {
	bp := NewBytePipe()
	var wg sync.WaitGroup

	const iterations = 1000
	const goroutines = 10
	data := []byte("test")

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_, err := bp.Write(data)
				assert.NoError(t, err)
			}
		}()
	}

	go func() {
		wg.Wait()
		bp.Close()
	}()

	all, err := io.ReadAll(bp)
	assert.NoError(t, err)
	assert.Len(t, all, goroutines*iterations*len(data))
	assert.Equal(t, int64(len(all)), bp.Written())
}

func TestNewBytePipe_BP(t *testing.T) {
	bp := NewBytePipe()
	assert.NotNil(t, bp)
	assert.NotNil(t, bp.cond)
}

func TestWrite_BP(t *testing.T) {
	bp := NewBytePipe()
	n, err := bp.Write([]byte("test"))

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWriteClosedBuffer_BP(t *testing.T) {
	bp := NewBytePipe()
	bp.Close()

	n, err := bp.Write([]byte("test"))

	assert.ErrorIs(t, err, ErrPipeClosed)
	assert.Equal(t, 0, n)
}

func TestRead_BP(t *testing.T) {
	bp := NewBytePipe()
	data := []byte("test")
	readBuffer := make([]byte, 4)

	go func() {
		time.Sleep(100 * time.Millisecond)
		bp.Write(data)
	}()

	n, err := bp.Read(readBuffer)

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, data, readBuffer)
}

func TestReadClosedBuffer_BP(t *testing.T) {
	bp := NewBytePipe()
	readBuffer := make([]byte, 4)

	bp.Close()
	n, err := bp.Read(readBuffer)

	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}

func TestCloseDrainsRemaining_BP(t *testing.T) {
	bp := NewBytePipe()
	bp.Write([]byte("tail"))
	bp.Close()

	all, err := io.ReadAll(bp)
	assert.NoError(t, err)
	assert.Equal(t, "tail", string(all))
}

func TestCloseWithError_BP(t *testing.T) {
	bp := NewBytePipe()
	failure := errors.New("provider failed")

	bp.Write([]byte("partial"))
	assert.NoError(t, bp.CloseWithError(failure))
	// second close is ignored
	assert.NoError(t, bp.Close())

	all, err := io.ReadAll(bp)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, "partial", string(all))
}

func TestClose_BP(t *testing.T) {
	bp := NewBytePipe()
	err := bp.Close()

	assert.NoError(t, err)
	assert.True(t, bp.closed)
}
