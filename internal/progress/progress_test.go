package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestFileLoggerAppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch-job1.log")
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewFileLogger(path, clock)
	t.Cleanup(func() { _ = l.Close() })

	ctx := context.Background()
	require.NoError(t, l.Log(ctx, "job:start version=v1 pairs=2"))
	require.NoError(t, l.Log(ctx, "job:progress version=v1 pair=BTCUSDT processed=1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"2025-06-01T12:00:00.000Z job:start version=v1 pairs=2\n"+
			"2025-06-01T12:00:00.000Z job:progress version=v1 pair=BTCUSDT processed=1\n",
		string(data))
}

func TestHubBroadcastsToSubscribers(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	t.Cleanup(cancel1)
	t.Cleanup(cancel2)

	require.NoError(t, h.Log(ctx, "job:start version=v1 pairs=1"))

	assert.Equal(t, "job:start version=v1 pairs=1", <-ch1)
	assert.Equal(t, "job:start version=v1 pairs=1", <-ch2)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	ch, cancel := h.Subscribe()
	cancel()
	require.NoError(t, h.Log(ctx, "dropped"))

	_, open := <-ch
	assert.False(t, open)

	// Double cancel is safe.
	cancel()
}

func TestHubDropsWhenSubscriberLagsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	_, cancel := h.Subscribe()
	t.Cleanup(cancel)

	for i := 0; i < 200; i++ {
		require.NoError(t, h.Log(ctx, "line"))
	}
}

type failingLogger struct{}

func (failingLogger) Log(context.Context, string) error { return errors.New("disk full") }

type countingLogger struct{ n int }

func (l *countingLogger) Log(context.Context, string) error {
	l.n++
	return nil
}

func TestMultiFansOutInOrderAndStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	first := &countingLogger{}
	after := &countingLogger{}

	m := NewMulti(first, failingLogger{}, after)
	err := m.Log(ctx, "job:progress version=v1 pair=BTCUSDT processed=1")
	require.Error(t, err)
	assert.Equal(t, 1, first.n)
	assert.Equal(t, 0, after.n)

	ok := NewMulti(first, after)
	require.NoError(t, ok.Log(ctx, "job:complete version=v1 processed=1"))
	assert.Equal(t, 2, first.n)
	assert.Equal(t, 1, after.n)
}
