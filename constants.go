package scrollsynth

import "time"

// Unit conversion defaults
const (
	// DefaultPixelsPerLine converts pixel deltas into wheel line units.
	DefaultPixelsPerLine = 10.0

	// DefaultGestureGain scales pixel deltas into the gesture stream.
	DefaultGestureGain = 1.15
)

// Smoothing defaults
const (
	// DefaultSmootherCapacity is the rolling-average window length shared
	// by the x, y, and tick-interval smoothers.
	DefaultSmootherCapacity = 5
)

// Momentum handoff defaults
const (
	// DefaultMaxMomentumStartGap is the longest pause between the final
	// movement and the gesture end that still starts momentum.
	DefaultMaxMomentumStartGap = 100 * time.Millisecond

	// DefaultStopSpeed is the speed, in pixels per second, at and below
	// which momentum is skipped and a running decay finishes.
	DefaultStopSpeed = 1.0
)

// Decay model defaults
const (
	// DefaultDragCoefficient stretches the decay. Larger values coast
	// longer at a given exit speed.
	DefaultDragCoefficient = 30.0

	// DefaultDragExponent shapes the decay. Values toward 1 brake hard at
	// speed and leave a long low-speed tail.
	DefaultDragExponent = 0.75
)

// Frame pacing defaults
const (
	// DefaultTickInterval paces momentum frames near common display
	// refresh rates.
	DefaultTickInterval = time.Second / 60
)

// Feel preset tunings
const (
	// Snappy: quick spin-down, higher stop floor.
	snappyDragCoefficient = 15.0
	snappyDragExponent    = 0.7
	snappyStopSpeed       = 4.0

	// Floaty: long glide, low stop floor.
	floatyDragCoefficient = 60.0
	floatyDragExponent    = 0.8
	floatyStopSpeed       = 0.5
)

// Quantization constants
const (
	// lineBias selects floor quantization for the line stream, holding
	// back fractional line units until a whole one has accumulated.
	lineBias = 1.0
)
