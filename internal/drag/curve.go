// Package drag implements the closed-form deceleration model behind momentum
// scrolling. Speed decays under a power-law drag force until it reaches a
// configured stop speed; the solved curve maps elapsed time to cumulative
// traveled distance for the frame animator.
package drag

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Common errors returned by curve construction.
var (
	// ErrInvalidParams indicates out-of-range curve parameters.
	ErrInvalidParams = errors.New("invalid drag curve parameters")

	// ErrBelowStopSpeed indicates the initial speed does not exceed the stop
	// speed, so no momentum run can happen. This is a defined branch for
	// callers to skip momentum, not a failure.
	ErrBelowStopSpeed = errors.New("initial speed at or below stop speed")
)

// Params defines one momentum run.
//
// The model solves dv/dt = -(1/Coefficient) * v^(1+Exponent), which gives
// the inverse-power decay
//
//	speed(t) = (InitialSpeed^-e + (e/c)*t)^(-1/e)
//
// with closed forms for the time to reach StopSpeed and the distance
// traveled until then.
type Params struct {
	// Coefficient tunes the decay rate. Larger values decay slower.
	Coefficient float64

	// Exponent shapes the decay, in (0, 1). Typical values are 0.7-0.9;
	// higher values bleed speed faster early in the tail.
	Exponent float64

	// InitialSpeed is the speed at t = 0, in units per second.
	InitialSpeed float64

	// StopSpeed is the speed at which the run ends, in units per second.
	StopSpeed float64
}

// Validate checks parameter ranges.
func (p *Params) Validate() error {
	if p.Coefficient <= 0 {
		return fmt.Errorf("%w: coefficient must be positive", ErrInvalidParams)
	}

	if p.Exponent <= 0 || p.Exponent >= 1 {
		return fmt.Errorf("%w: exponent must be in (0, 1)", ErrInvalidParams)
	}

	if p.StopSpeed <= 0 {
		return fmt.Errorf("%w: stop speed must be positive", ErrInvalidParams)
	}

	if math.IsNaN(p.InitialSpeed) || math.IsInf(p.InitialSpeed, 0) || p.InitialSpeed < 0 {
		return fmt.Errorf("%w: initial speed must be non-negative and finite", ErrInvalidParams)
	}

	return nil
}

// Curve is a solved momentum run. Immutable after construction; build one
// per run and discard it when the run ends.
type Curve struct {
	initial  float64
	stop     float64
	exponent float64

	duration float64 // seconds until speed reaches stop
	total    float64 // distance traveled over the full run

	rate      float64 // exponent / coefficient
	initPow   float64 // initial^-exponent
	distScale float64 // coefficient / (1 - exponent)
	initDist  float64 // initial^(1-exponent)
}

// New solves a curve for the given parameters. It returns ErrBelowStopSpeed
// when the initial speed cannot sustain a run; callers must branch on that
// before starting an animation.
func New(p Params) (*Curve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.InitialSpeed <= p.StopSpeed {
		return nil, fmt.Errorf("%w: %.3f <= %.3f", ErrBelowStopSpeed, p.InitialSpeed, p.StopSpeed)
	}

	c := &Curve{
		initial:   p.InitialSpeed,
		stop:      p.StopSpeed,
		exponent:  p.Exponent,
		rate:      p.Exponent / p.Coefficient,
		initPow:   math.Pow(p.InitialSpeed, -p.Exponent),
		distScale: p.Coefficient / (1 - p.Exponent),
		initDist:  math.Pow(p.InitialSpeed, 1-p.Exponent),
	}

	stopPow := math.Pow(p.StopSpeed, -p.Exponent)
	c.duration = (stopPow - c.initPow) / c.rate
	c.total = c.distScale * (c.initDist - math.Pow(p.StopSpeed, 1-p.Exponent))

	return c, nil
}

// SpeedAt returns the decayed speed after elapsed time. Clamped to the run:
// non-positive elapsed returns the initial speed, elapsed at or past the
// duration returns the stop speed.
func (c *Curve) SpeedAt(elapsed time.Duration) float64 {
	t := elapsed.Seconds()
	if t <= 0 {
		return c.initial
	}
	if t >= c.duration {
		return c.stop
	}

	return math.Pow(c.initPow+c.rate*t, -1/c.exponent)
}

// DistanceAt returns the cumulative traveled distance after elapsed time.
// Monotonically non-decreasing, distance(0) = 0, clamped to TotalDistance.
func (c *Curve) DistanceAt(elapsed time.Duration) float64 {
	t := elapsed.Seconds()
	if t <= 0 {
		return 0
	}
	if t >= c.duration {
		return c.total
	}

	v := math.Pow(c.initPow+c.rate*t, -1/c.exponent)
	return c.distScale * (c.initDist - math.Pow(v, 1-c.exponent))
}

// Duration returns the time for the speed to decay to the stop speed.
func (c *Curve) Duration() time.Duration {
	return time.Duration(c.duration * float64(time.Second))
}

// TotalDistance returns the distance traveled over the full run.
func (c *Curve) TotalDistance() float64 {
	return c.total
}

// InitialSpeed returns the speed the curve starts from.
func (c *Curve) InitialSpeed() float64 {
	return c.initial
}

// StopSpeed returns the speed the run ends at.
func (c *Curve) StopSpeed() float64 {
	return c.stop
}
