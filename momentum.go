package scrollsynth

import (
	"go.uber.org/zap"

	"github.com/inputkit/scrollsynth/internal/animate"
	"github.com/inputkit/scrollsynth/internal/drag"
)

// ended closes the session, emits the terminal marker, and hands off to
// momentum when the exit velocity warrants it.
func (e *gestureEngine) ended() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	hadSession := e.active
	e.active = false

	if !hadSession {
		e.cfg.Logger.Warn("gesture ended without an open session")
	} else {
		e.cfg.Logger.Debug("gesture ended",
			zap.String("session", e.session.String()),
			zap.Float64("pointer_travel",
				e.cfg.Location().Sub(e.origin).Magnitude()))
	}

	// The terminal marker goes out no matter how the session closes.
	e.cfg.Sink.Deliver(Event{
		Phase:    PhaseEnded,
		Momentum: MomentumNone,
		Location: e.cfg.Location(),
	})

	e.maybeStartMomentum(hadSession)
	return nil
}

// maybeStartMomentum evaluates the handoff gates and starts the decay run
// when they all pass. Caller holds mu.
func (e *gestureEngine) maybeStartMomentum(hadSession bool) {
	log := e.cfg.Logger

	// Without a movement delta there is no velocity signal to decay.
	if !hadSession || !e.sawChanged {
		log.Debug("momentum skipped: no movement in session")
		return
	}

	gap := e.cfg.Clock.Now().Sub(e.lastInput)
	if gap > e.cfg.MaxMomentumStartGap {
		log.Debug("momentum skipped: stale gesture",
			zap.Duration("gap", gap),
			zap.Duration("max", e.cfg.MaxMomentumStartGap))
		return
	}

	// Feed the last smoothed values back through their own smoothers once
	// more, preserving continuity with the just-ended gesture instead of
	// injecting a zero.
	sx := e.smoothX.Smooth(e.lastSmoothedX)
	sy := e.smoothY.Smooth(e.lastSmoothedY)
	sdt := e.smoothDT.Smooth(e.lastSmoothedDT)
	if sdt <= 0 {
		log.Debug("momentum skipped: no usable tick interval")
		return
	}

	exit := Vec(sx/sdt, sy/sdt)
	initial := e.cfg.VelocityTransform(exit)
	speed := initial.Magnitude()

	curve, err := drag.New(drag.Params{
		Coefficient:  e.cfg.DragCoefficient,
		Exponent:     e.cfg.DragExponent,
		InitialSpeed: speed,
		StopSpeed:    e.cfg.StopSpeed,
	})
	if err != nil {
		// Too slow to coast, or unusable tuning. The gesture simply ends
		// here; the terminal marker is already out.
		log.Debug("momentum skipped",
			zap.Error(err),
			zap.Float64("speed", speed))
		return
	}

	e.momentumDirection = initial.Unit()
	e.momentumOrigin = e.cfg.Location()
	e.momentumActive = true

	log.Debug("momentum started",
		zap.String("session", e.session.String()),
		zap.Float64("speed", speed),
		zap.Duration("duration", curve.Duration()),
		zap.Float64("distance", curve.TotalDistance()))

	// The animator is idle on every path that reaches here: began stops
	// it and nothing else starts it, so Start cannot block on a tick
	// waiting for mu.
	e.animator.Start(curve.Duration(), curve.DistanceAt, e.momentumTick)
}

// momentumTick turns one animator frame into a synthesized momentum event.
// Runs on the animator goroutine.
func (e *gestureEngine) momentumTick(frame animate.Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.momentumActive {
		return
	}

	location := e.cfg.Location()

	if e.cfg.MomentumCancelDistance > 0 &&
		location.Sub(e.momentumOrigin).Magnitude() > e.cfg.MomentumCancelDistance {
		// The pointer wandered off, so the run is dead. The animator
		// cannot be stopped from its own callback; remaining ticks are
		// swallowed by the momentumActive guard until began or Stop
		// reaps the goroutine.
		e.momentumActive = false
		e.cfg.Logger.Debug("momentum canceled: pointer moved",
			zap.String("session", e.session.String()))
		e.deliverMomentum(Vector{}, MomentumEnd, location)
		return
	}

	point := e.momentumDirection.Scaled(float64(frame.Delta))

	phase := MomentumContinue
	switch frame.Phase {
	case animate.PhaseStart:
		phase = MomentumBegin
	case animate.PhaseEnd, animate.PhaseStartAndEnd:
		phase = MomentumEnd
	}

	if phase == MomentumEnd {
		e.momentumActive = false
		e.cfg.Logger.Debug("momentum finished",
			zap.String("session", e.session.String()))
	}

	e.deliverMomentum(point, phase, location)
}

// deliverMomentum emits one momentum-tagged event. The line delta derives
// from the point delta through the same scale transform as gesture input;
// the gesture stream stays zero. Caller holds mu.
func (e *gestureEngine) deliverMomentum(point Vector, phase MomentumPhase, location Vector) {
	e.cfg.Sink.Deliver(Event{
		Point:    point,
		Line:     point.Div(e.cfg.PixelsPerLine),
		Phase:    PhaseUndefined,
		Momentum: phase,
		Location: location,
	})
}
