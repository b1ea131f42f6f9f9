package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
)

type flushRecorder struct {
	mu     sync.Mutex
	chunks []string
}

func (r *flushRecorder) record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, string(data))
}

func (r *flushRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.chunks...)
}

func TestLineBatcher_HoldsPartialLine(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewLineBatcher(0, time.Hour, rec.record)

	_, err := b.Write([]byte("wrote build/css/main.min.css\nwrote build/"))
	require.NoError(t, err)

	b.Flush()
	assert.Equal(t, []string{"wrote build/css/main.min.css\n"}, rec.get())

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"wrote build/css/main.min.css\n", "wrote build/"}, rec.get())
}

func TestLineBatcher_SizeLimitFlushesEverything(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewLineBatcher(4, time.Hour, rec.record)
	defer b.Close()

	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abcdef"}, rec.get())
}

func TestLineBatcher_TickerFlushes(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewLineBatcher(0, 5*time.Millisecond, rec.record)
	defer b.Close()

	_, err := b.Write([]byte("line\n"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestLineBatcher_WriteAfterClose(t *testing.T) {
	b := telemetry.NewLineBatcher(0, 0, nil)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err := b.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrBatcherClosed)
}
