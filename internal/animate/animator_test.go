package animate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputkit/scrollsynth/internal/testutil"
)

const (
	testTickInterval = time.Millisecond
	testAdvanceStep  = 20 * time.Millisecond
	testWaitFor      = 5 * time.Second
	testPollEvery    = 2 * time.Millisecond
)

// frameRecorder collects frames delivered by an Animator and closes done
// when a run-terminating frame arrives.
type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
	done   chan struct{}
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{done: make(chan struct{})}
}

func (r *frameRecorder) record(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	if f.Phase.Last() {
		close(r.done)
	}
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *frameRecorder) snapshot() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

func (r *frameRecorder) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// TestAnimator_RunCompletes drives a run over a manual clock and verifies it
// terminates with conserved distance.
func TestAnimator_RunCompletes(t *testing.T) {
	const total = 120.0
	duration := 600 * time.Millisecond

	clk := testutil.NewClock(time.Unix(0, 0))
	a := NewAnimator(clk, testTickInterval)
	rec := newFrameRecorder()

	a.Start(duration, linearDistance(total, duration), rec.record)
	require.True(t, a.Running())

	require.Eventually(t, func() bool {
		clk.Advance(testAdvanceStep)
		return rec.finished()
	}, testWaitFor, testPollEvery, "run never delivered a terminating frame")

	frames := rec.snapshot()
	require.NotEmpty(t, frames)
	assert.True(t, frames[len(frames)-1].Phase.Last())

	sum := 0
	for _, f := range frames {
		sum += f.Delta
	}
	testutil.AssertWithinOne(t, sum, total)

	// The loop clears its slot just after the terminating callback.
	assert.Eventually(t, func() bool { return !a.Running() },
		time.Second, testPollEvery, "animator still running after final frame")
}

// TestAnimator_ZeroDurationRun verifies a zero-length run completes on its
// first tick with a single start_and_end frame. Also exercises the interval
// clamp: a non-positive interval must not reach time.NewTicker.
func TestAnimator_ZeroDurationRun(t *testing.T) {
	a := NewAnimator(SystemClock(), 0)
	rec := newFrameRecorder()

	a.Start(0, func(time.Duration) float64 { return 0 }, rec.record)

	select {
	case <-rec.done:
	case <-time.After(testWaitFor):
		t.Fatal("zero-duration run did not complete")
	}

	frames := rec.snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, PhaseStartAndEnd, frames[0].Phase)
}

// TestAnimator_StopHaltsCallbacks verifies Stop blocks until the loop exits
// and that no frame is delivered afterwards.
func TestAnimator_StopHaltsCallbacks(t *testing.T) {
	clk := testutil.NewClock(time.Unix(0, 0))
	a := NewAnimator(clk, testTickInterval)
	rec := newFrameRecorder()

	// Effectively endless run.
	a.Start(time.Hour, func(elapsed time.Duration) float64 {
		return elapsed.Seconds() * 100
	}, rec.record)

	require.Eventually(t, func() bool {
		clk.Advance(testAdvanceStep)
		return rec.count() > 0
	}, testWaitFor, testPollEvery, "no frames before Stop")

	a.Stop()
	assert.False(t, a.Running())

	seen := rec.count()
	clk.Advance(time.Minute)
	assert.Never(t, func() bool { return rec.count() != seen },
		50*time.Millisecond, 5*time.Millisecond, "frame delivered after Stop")
}

// TestAnimator_StopIdempotent verifies Stop is safe before any run and when
// repeated.
func TestAnimator_StopIdempotent(t *testing.T) {
	a := NewAnimator(SystemClock(), testTickInterval)

	a.Stop()
	assert.False(t, a.Running())

	a.Start(time.Hour, func(time.Duration) float64 { return 0 }, func(Frame) {})
	a.Stop()
	a.Stop()
	assert.False(t, a.Running())
}

// TestAnimator_RestartReplacesRun verifies starting a new run halts the
// previous one before the new loop begins.
func TestAnimator_RestartReplacesRun(t *testing.T) {
	clk := testutil.NewClock(time.Unix(0, 0))
	a := NewAnimator(clk, testTickInterval)

	first := newFrameRecorder()
	second := newFrameRecorder()

	dist := func(elapsed time.Duration) float64 {
		return elapsed.Seconds() * 100
	}

	a.Start(time.Hour, dist, first.record)
	require.Eventually(t, func() bool {
		clk.Advance(testAdvanceStep)
		return first.count() > 0
	}, testWaitFor, testPollEvery, "first run never ticked")

	// Start returns only after the previous loop has exited.
	a.Start(time.Hour, dist, second.record)
	firstSeen := first.count()
	require.True(t, a.Running())

	require.Eventually(t, func() bool {
		clk.Advance(testAdvanceStep)
		return second.count() > 0
	}, testWaitFor, testPollEvery, "second run never ticked")

	assert.Equal(t, firstSeen, first.count(), "first run ticked after restart")

	a.Stop()
}
