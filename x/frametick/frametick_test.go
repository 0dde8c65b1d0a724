package frametick

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	got  []int
	done chan struct{}
	want int
}

func newRecorder(want int) *recorder {
	return &recorder{done: make(chan struct{}), want: want}
}

func (r *recorder) task(n int) func() {
	return func() {
		r.mu.Lock()
		r.got = append(r.got, n)
		if len(r.got) == r.want {
			close(r.done)
		}
		r.mu.Unlock()
	}
}

func (r *recorder) wait(t *testing.T) []int {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled tasks")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.got))
	copy(out, r.got)
	return out
}

func TestImmediateRunsInline(t *testing.T) {
	t.Parallel()
	ran := false
	Immediate{}.Schedule(func() { ran = true })
	require.True(t, ran)
}

func TestTickerRunsTasksInOrder(t *testing.T) {
	t.Parallel()
	rec := newRecorder(3)
	tick := NewTicker(time.Millisecond)
	defer tick.Stop()

	tick.Schedule(rec.task(1))
	tick.Schedule(rec.task(2))
	tick.Schedule(rec.task(3))

	require.Equal(t, []int{1, 2, 3}, rec.wait(t))
}

func TestTickerStopDrainsPending(t *testing.T) {
	t.Parallel()
	rec := newRecorder(2)
	tick := NewTicker(time.Hour) // never fires during the test
	tick.Schedule(rec.task(1))
	tick.Schedule(rec.task(2))

	tick.Stop()
	require.Equal(t, []int{1, 2}, rec.wait(t))
}

func TestTickerScheduleAfterStopRunsInline(t *testing.T) {
	t.Parallel()
	tick := NewTicker(time.Millisecond)
	tick.Stop()

	ran := false
	tick.Schedule(func() { ran = true })
	require.True(t, ran)
}
