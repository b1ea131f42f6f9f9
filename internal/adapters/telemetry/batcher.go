// Package telemetry turns pipeline spans into renderer callbacks using OpenTelemetry.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered byte count that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the interval after which complete lines are flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

// ErrBatcherClosed is returned by Write after Close.
var ErrBatcherClosed = errors.New("log batcher is closed")

// LineBatcher buffers span output and hands it on in whole lines.
// A trailing partial line is held back until it is completed, the size limit
// is hit, or the batcher is closed.
type LineBatcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewLineBatcher returns a running LineBatcher. Non-positive limits select the defaults.
// Call Close to stop the background ticker.
func NewLineBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &LineBatcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		ticker:    time.NewTicker(timeLimit),
		stopCh:    make(chan struct{}),
	}
	go b.run()
	return b
}

// Write appends p to the buffer.
func (b *LineBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrBatcherClosed
	}

	n, _ := b.buffer.Write(p)
	if b.buffer.Len() >= b.sizeLimit {
		b.flushLocked(true)
		b.ticker.Reset(b.timeLimit)
	}
	return n, nil
}

// Flush hands on every complete line buffered so far.
func (b *LineBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.flushLocked(false)
	}
}

// Close stops the ticker and flushes everything, including a partial line.
func (b *LineBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.stopCh)
	b.flushLocked(true)
	return nil
}

func (b *LineBatcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held.
func (b *LineBatcher) flushLocked(all bool) {
	end := b.buffer.Len()
	if !all {
		end = bytes.LastIndexByte(b.buffer.Bytes(), '\n') + 1
	}
	if end == 0 {
		return
	}

	data := make([]byte, end)
	copy(data, b.buffer.Next(end))
	if b.buffer.Len() == 0 {
		b.buffer.Reset()
	}
	if b.onFlush != nil {
		b.onFlush(data)
	}
}
