package animate

import (
	"sync"
	"time"
)

// Callback receives each frame synchronously within its tick. A callback
// must not call Stop or Start on the owning animator; that would deadlock
// against the tick loop.
type Callback func(Frame)

// Animator schedules momentum runs on a fixed-rate ticker. At most one run
// is active per animator; starting a new run stops the previous one first.
//
// Stop is synchronous: once it returns, no callback from the stopped run
// executes. That guarantee lets the engine reset session state immediately
// after stopping without observing a stale tick.
type Animator struct {
	clock    Clock
	interval time.Duration

	mu  sync.Mutex
	run *run
}

type run struct {
	stop chan struct{}
	done chan struct{}
}

// NewAnimator creates an animator ticking at the given interval.
// Non-positive intervals are clamped to one millisecond.
func NewAnimator(clock Clock, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = time.Millisecond
	}

	return &Animator{
		clock:    clock,
		interval: interval,
	}
}

// Start begins a run over the given duration. Any active run is stopped
// first with the same guarantee as Stop. The first tick fires one interval
// after Start returns.
func (a *Animator) Start(duration time.Duration, distance DistanceFunc, cb Callback) {
	a.Stop()

	r := &run{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	a.mu.Lock()
	a.run = r
	a.mu.Unlock()

	go a.loop(r, newFrames(a.clock.Now(), duration, distance), cb)
}

// Stop cancels the active run and waits for its tick loop to exit.
// Idempotent; a no-op when nothing is running.
func (a *Animator) Stop() {
	a.mu.Lock()
	r := a.run
	a.run = nil
	a.mu.Unlock()

	if r == nil {
		return
	}

	close(r.stop)
	<-r.done
}

// Running reports whether a run is active.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.run != nil
}

func (a *Animator) loop(r *run, f *frames, cb Callback) {
	defer close(r.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			frame := f.step(a.clock.Now())
			cb(frame)
			if frame.Phase.Last() {
				a.finish(r)
				return
			}
		}
	}
}

// finish clears the run slot after natural completion, unless a new run has
// already replaced it.
func (a *Animator) finish(r *run) {
	a.mu.Lock()
	if a.run == r {
		a.run = nil
	}
	a.mu.Unlock()
}
