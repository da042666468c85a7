// Package subpix converts streams of real-valued deltas into integer deltas
// without losing or duplicating motion. Each accumulator carries the
// fractional remainder between what was fed and what was emitted, so the
// running integer total never drifts more than one unit from the running
// real total, no matter how long the stream runs.
package subpix

import (
	"math"
)

// Accumulator quantizes one scalar delta stream. The zero value is not
// usable; construct with NewRound or NewBiased.
type Accumulator struct {
	round     func(float64) float64
	remainder float64
	last      int
}

// NewRound creates an accumulator that rounds the carried total to the
// nearest integer, ties away from zero. Remainders stay in (-1, 1).
func NewRound() Accumulator {
	return Accumulator{round: math.Round}
}

// NewBiased creates an accumulator with a fixed rounding direction: floor
// for a non-negative bias sign, ceil for a negative one. A consistent
// direction avoids visible jitter on streams quantized to coarse units,
// at the cost of lagging up to one unit behind the real total.
func NewBiased(bias float64) Accumulator {
	if bias < 0 {
		return Accumulator{round: math.Ceil}
	}
	return Accumulator{round: math.Floor}
}

// Accumulate folds delta into the carried remainder and returns the integer
// delta to emit now.
func (a *Accumulator) Accumulate(delta float64) int {
	total := a.remainder + delta
	out := a.round(total)
	a.remainder = total - out
	a.last = int(out)
	return a.last
}

// Last returns the integer delta most recently emitted.
func (a *Accumulator) Last() int {
	return a.last
}

// Remainder returns the carried fractional part.
func (a *Accumulator) Remainder() float64 {
	return a.remainder
}

// Reset zeroes the remainder and the last emitted delta.
func (a *Accumulator) Reset() {
	a.remainder = 0
	a.last = 0
}

// Axes pairs two accumulators so a 2D delta stream quantizes with an
// independent remainder per axis.
type Axes struct {
	X Accumulator
	Y Accumulator
}

// NewRoundAxes creates a per-axis pair using round-to-nearest quantization.
func NewRoundAxes() Axes {
	return Axes{X: NewRound(), Y: NewRound()}
}

// NewBiasedAxes creates a per-axis pair using single-direction quantization.
func NewBiasedAxes(bias float64) Axes {
	return Axes{X: NewBiased(bias), Y: NewBiased(bias)}
}

// Accumulate quantizes one 2D delta, carrying each axis independently.
func (a *Axes) Accumulate(dx, dy float64) (int, int) {
	return a.X.Accumulate(dx), a.Y.Accumulate(dy)
}

// Reset zeroes both remainders.
func (a *Axes) Reset() {
	a.X.Reset()
	a.Y.Reset()
}
