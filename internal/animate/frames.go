package animate

import (
	"time"

	"github.com/inputkit/scrollsynth/internal/subpix"
)

// Phase positions a tick within its run.
type Phase int

const (
	// PhaseStart marks the first tick of a run.
	PhaseStart Phase = iota

	// PhaseContinue marks a tick in the middle of a run.
	PhaseContinue

	// PhaseEnd marks the tick that completes a run.
	PhaseEnd

	// PhaseStartAndEnd marks a run that started and completed within a
	// single tick, e.g. a near-zero duration. Treated like PhaseEnd; the
	// distinction is kept for logging fidelity.
	PhaseStartAndEnd
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseContinue:
		return "continue"
	case PhaseEnd:
		return "end"
	case PhaseStartAndEnd:
		return "start_and_end"
	default:
		return "unknown"
	}
}

// Last reports whether the phase completes a run.
func (p Phase) Last() bool {
	return p == PhaseEnd || p == PhaseStartAndEnd
}

// DistanceFunc maps elapsed run time to cumulative distance. Implementations
// must be monotonically non-decreasing; a solved drag curve qualifies.
type DistanceFunc func(elapsed time.Duration) float64

// Frame is one tick's output.
type Frame struct {
	// Delta is the integer distance step covered by this tick.
	Delta int

	// DT is the time since the previous tick; zero on the first tick.
	DT time.Duration

	// Phase positions the tick within the run.
	Phase Phase
}

// frames is the per-run stepper. Each step clamps elapsed time to the run,
// reads the cumulative distance, and quantizes the growth since the last
// step through a fresh accumulator so no motion is lost between ticks.
type frames struct {
	started  time.Time
	duration time.Duration
	distance DistanceFunc

	acc          subpix.Accumulator
	lastDistance float64
	lastTick     time.Time
	ticked       bool
}

func newFrames(started time.Time, duration time.Duration, distance DistanceFunc) *frames {
	return &frames{
		started:  started,
		duration: duration,
		distance: distance,
		acc:      subpix.NewRound(),
	}
}

// step advances the run to now and returns the resulting frame.
func (f *frames) step(now time.Time) Frame {
	elapsed := now.Sub(f.started)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > f.duration {
		elapsed = f.duration
	}

	cumulative := f.distance(elapsed)
	delta := f.acc.Accumulate(cumulative - f.lastDistance)
	f.lastDistance = cumulative

	var dt time.Duration
	if f.ticked {
		dt = now.Sub(f.lastTick)
	}
	f.lastTick = now

	done := elapsed >= f.duration
	phase := PhaseContinue
	switch {
	case !f.ticked && done:
		phase = PhaseStartAndEnd
	case !f.ticked:
		phase = PhaseStart
	case done:
		phase = PhaseEnd
	}
	f.ticked = true

	return Frame{Delta: delta, DT: dt, Phase: phase}
}
