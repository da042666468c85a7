package scrollsynth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inputkit/scrollsynth/internal/animate"
	"github.com/inputkit/scrollsynth/internal/smooth"
	"github.com/inputkit/scrollsynth/internal/subpix"
)

// gestureEngine implements Engine. A single mutex serializes Feed, Stop,
// and the momentum tick callback. The animator is always stopped before the
// mutex is taken: a pending tick takes the same mutex, so stopping while
// holding it would deadlock.
type gestureEngine struct {
	cfg      Config
	animator *animate.Animator

	mu sync.Mutex

	// Gesture session state, guarded by mu.
	session    uuid.UUID
	active     bool
	sawChanged bool
	origin     Vector
	lastInput  time.Time

	smoothX  *smooth.RollingAverage
	smoothY  *smooth.RollingAverage
	smoothDT *smooth.RollingAverage

	lastSmoothedX  float64
	lastSmoothedY  float64
	lastSmoothedDT float64

	gestureAcc subpix.Axes
	pointAcc   subpix.Axes
	lineAcc    subpix.Axes

	// Momentum run state, guarded by mu.
	momentumActive    bool
	momentumDirection Vector
	momentumOrigin    Vector
}

func newGestureEngine(cfg Config) *gestureEngine {
	return &gestureEngine{
		cfg:        cfg,
		animator:   animate.NewAnimator(cfg.Clock, cfg.TickInterval),
		smoothX:    smooth.NewRollingAverage(cfg.SmootherCapacity),
		smoothY:    smooth.NewRollingAverage(cfg.SmootherCapacity),
		smoothDT:   smooth.NewRollingAverage(cfg.SmootherCapacity),
		gestureAcc: subpix.NewRoundAxes(),
		pointAcc:   subpix.NewRoundAxes(),
		lineAcc:    subpix.NewBiasedAxes(lineBias),
	}
}

// Feed implements Engine.
func (e *gestureEngine) Feed(delta Vector, phase InputPhase) error {
	switch phase {
	case PhaseBegan:
		return e.began(delta)
	case PhaseChanged:
		return e.changed(delta)
	case PhaseEnded:
		return e.ended()
	default:
		panic(fmt.Sprintf("scrollsynth: input phase %d outside the valid range", int(phase)))
	}
}

// Stop implements Engine.
func (e *gestureEngine) Stop() {
	// Lock ordering: animator first, then mu.
	e.animator.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.momentumActive {
		return
	}
	e.momentumActive = false

	e.cfg.Logger.Debug("momentum stopped",
		zap.String("session", e.session.String()))

	e.deliverMomentum(Vector{}, MomentumEnd, e.cfg.Location())
}

// Momentum implements Engine.
func (e *gestureEngine) Momentum() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.momentumActive
}

// began opens a fresh session, canceling any running momentum.
func (e *gestureEngine) began(delta Vector) error {
	if delta.IsZero() {
		return ErrZeroDelta
	}

	// Lock ordering: animator first, then mu.
	e.animator.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = uuid.New()
	e.active = true
	e.sawChanged = false
	e.momentumActive = false
	e.origin = e.cfg.Location()
	e.lastInput = e.cfg.Clock.Now()

	e.smoothX.Reset()
	e.smoothY.Reset()
	e.smoothDT.Reset()
	e.gestureAcc.Reset()
	e.pointAcc.Reset()
	e.lineAcc.Reset()

	// The begin delta seeds the x/y smoothers. The tick-interval smoother
	// stays empty: with no predecessor there is no interval yet.
	e.lastSmoothedX = e.smoothX.Smooth(delta.X)
	e.lastSmoothedY = e.smoothY.Smooth(delta.Y)
	e.lastSmoothedDT = 0

	e.cfg.Logger.Debug("gesture began",
		zap.String("session", e.session.String()),
		zap.Float64("dx", delta.X),
		zap.Float64("dy", delta.Y))

	e.emitInput(delta, PhaseBegan)
	return nil
}

// changed advances an open session with one movement delta.
func (e *gestureEngine) changed(delta Vector) error {
	if delta.IsZero() {
		return ErrZeroDelta
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		e.cfg.Logger.Warn("movement delta without an open session")
		return ErrNoSession
	}

	now := e.cfg.Clock.Now()
	dt := now.Sub(e.lastInput).Seconds()
	e.lastInput = now
	e.sawChanged = true

	e.lastSmoothedX = e.smoothX.Smooth(delta.X)
	e.lastSmoothedY = e.smoothY.Smooth(delta.Y)
	e.lastSmoothedDT = e.smoothDT.Smooth(dt)

	e.emitInput(delta, PhaseChanged)
	return nil
}

// emitInput quantizes the three unit streams for one input delta and
// delivers the event. Caller holds mu.
func (e *gestureEngine) emitInput(delta Vector, phase InputPhase) {
	px, py := e.pointAcc.Accumulate(delta.X, delta.Y)

	line := delta.Div(e.cfg.PixelsPerLine)
	lx, ly := e.lineAcc.Accumulate(line.X, line.Y)

	gesture := delta.Scaled(e.cfg.GestureGain)
	gx, gy := e.gestureAcc.Accumulate(gesture.X, gesture.Y)

	e.cfg.Sink.Deliver(Event{
		Gesture:  Vec(float64(gx), float64(gy)),
		Point:    Vec(float64(px), float64(py)),
		Line:     Vec(float64(lx), float64(ly)),
		Phase:    phase,
		Momentum: MomentumNone,
		Location: e.cfg.Location(),
	})
}
