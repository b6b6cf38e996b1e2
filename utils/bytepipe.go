package utils

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

var ErrPipeClosed = errors.New("pipe closed")

// BytePipe is an in-memory pipe whose writes never block. Readers wait for
// data until the pipe is closed.
type BytePipe struct {
	buf    bytes.Buffer
	mu     sync.Mutex
	cond   *sync.Cond
	closed bool
	// returned to readers once the buffer drains, io.EOF on a clean close
	err error
	// total bytes ever written
	written int64
}

var _ io.ReadWriteCloser = &BytePipe{}

func NewBytePipe() *BytePipe {
	bp := &BytePipe{}
	bp.cond = sync.NewCond(&bp.mu)
	return bp
}

func (bp *BytePipe) Write(p []byte) (n int, err error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, ErrPipeClosed
	}
	n, err = bp.buf.Write(p)
	bp.written += int64(n)
	bp.cond.Broadcast()
	return
}

func (bp *BytePipe) Read(p []byte) (n int, err error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for bp.buf.Len() == 0 && !bp.closed {
		bp.cond.Wait()
	}

	if bp.buf.Len() == 0 {
		return 0, bp.err
	}
	return bp.buf.Read(p)
}

// Close ends the stream; readers get io.EOF after the remaining data.
func (bp *BytePipe) Close() error {
	return bp.CloseWithError(nil)
}

// CloseWithError ends the stream and hands err to readers once the
// remaining data is read. A nil err behaves like Close. Only the first
// close counts.
func (bp *BytePipe) CloseWithError(err error) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	if err == nil {
		err = io.EOF
	}
	bp.closed = true
	bp.err = err
	bp.cond.Broadcast()
	return nil
}

// Written reports how many bytes went into the pipe so far.
func (bp *BytePipe) Written() int64 {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.written
}
