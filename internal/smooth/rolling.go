// Package smooth provides the moving-average filter used to stabilize raw
// input deltas and inter-event timing before they feed the momentum physics.
package smooth

import (
	"gonum.org/v1/gonum/floats"
)

// RollingAverage is a fixed-capacity moving-average filter over a scalar
// stream. Samples are kept in insertion order; once the window is full the
// oldest sample is evicted. The smoothed value is the arithmetic mean of the
// retained samples, so a freshly reset filter passes its first sample through
// unchanged.
//
// Instances are single-writer and not safe for concurrent use; the engine
// serializes access.
type RollingAverage struct {
	samples  []float64
	writePos int
	size     int
}

// NewRollingAverage creates a filter averaging over the last capacity samples.
// Capacities below 1 are clamped to 1.
func NewRollingAverage(capacity int) *RollingAverage {
	if capacity < 1 {
		capacity = 1
	}

	return &RollingAverage{
		samples: make([]float64, capacity),
	}
}

// Smooth appends value to the window, evicting the oldest sample if the
// window is already full, and returns the mean of the retained samples.
func (r *RollingAverage) Smooth(value float64) float64 {
	r.samples[r.writePos] = value
	r.writePos = (r.writePos + 1) % len(r.samples)
	if r.size < len(r.samples) {
		r.size++
	}

	// Mean is order-independent, so the raw slot order is fine here.
	return floats.Sum(r.samples[:r.size]) / float64(r.size)
}

// Reset drops all buffered samples.
func (r *RollingAverage) Reset() {
	r.writePos = 0
	r.size = 0
}

// Size returns the number of samples currently in the window.
func (r *RollingAverage) Size() int {
	return r.size
}

// Capacity returns the window capacity.
func (r *RollingAverage) Capacity() int {
	return len(r.samples)
}
