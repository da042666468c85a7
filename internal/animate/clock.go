// Package animate drives momentum runs. A fixed-rate ticker queries a
// cumulative distance function, quantizes the growth since the previous tick
// into an integer delta, and hands each delta to a callback tagged with the
// run phase. The per-tick computation is pure state transformation, kept
// separate from the scheduling so it is testable without a ticker.
package animate

import (
	"time"
)

// Clock supplies the current time. The animator reads elapsed run time from
// it rather than from the ticker, so tests can drive a run across a virtual
// timeline while the ticker merely paces the callbacks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
