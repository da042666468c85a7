// Package scrollsynth synthesizes trackpad-like scroll event streams from
// raw two-axis input deltas, in pure Go.
//
// Feed a sequence of began/changed/ended deltas from any input source and
// the engine emits scroll events with pixel, wheel-line, and gesture deltas
// quantized to whole units without drift, plus an inertial momentum tail
// that decays along a physical drag curve after the gesture ends.
//
// # Features
//
//   - Gesture phase state machine with strict caller-contract checking
//   - Remainder-carrying subpixel quantization: emitted integers never
//     drift a full unit from the real-valued stream
//   - Rolling-average smoothing of travel distances and input cadence
//   - Closed-form power-law drag curve for momentum with tunable
//     coefficient, exponent, and stop speed
//   - Frame animator pacing momentum at display-like rates with an
//     injectable clock
//   - Pluggable event sinks and pointer-location providers
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
//	engine, err := scrollsynth.NewFunc(func(ev scrollsynth.Event) {
//	    fmt.Printf("%s %s point=%v line=%v\n",
//	        ev.Phase, ev.Momentum, ev.Point, ev.Line)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine.Feed(scrollsynth.Vec(0, -4), scrollsynth.PhaseBegan)
//	engine.Feed(scrollsynth.Vec(0, -12), scrollsynth.PhaseChanged)
//	engine.Feed(scrollsynth.Vec(0, -18), scrollsynth.PhaseChanged)
//	engine.Feed(scrollsynth.Vector{}, scrollsynth.PhaseEnded)
//
//	// Momentum events keep arriving until the decay reaches stop speed
//	// or Stop is called.
//
// # Feel Presets
//
// The engine ships canned decay tunings for common preferences:
//
//   - [FeelDefault]: balanced factory tuning.
//   - [FeelSnappy]: quick spin-down with a higher stop floor. Suited to
//     precise document work.
//   - [FeelFloaty]: long glide with a low stop floor. Suited to long
//     reads and casual browsing.
//
// Custom decay tuning uses [FeelCustom] with explicit DragCoefficient,
// DragExponent, and StopSpeed values in [Config].
//
// # Event Stream
//
// Every emission carries three parallel delta streams: Point (pixels),
// Line (wheel lines, Point divided by PixelsPerLine), and Gesture (Point
// scaled by GestureGain, zero during momentum). Input-driven events mirror
// the input phase with MomentumNone; momentum frames carry PhaseUndefined
// plus a Begin/Continue/End momentum phase, so consumers can tell the
// contact-driven and synthesized parts of a scroll apart.
//
// # Architecture
//
//	Feed ──> [smoothers] ──> [subpixel accumulators] ──> Sink
//	                │
//	              Ended ──> [drag curve] ──> [frame animator] ──> Sink
//
// The smoothers track recent x/y travel and input cadence to estimate the
// exit velocity at gesture end. The drag curve turns that velocity into a
// closed-form distance schedule; the animator samples the schedule every
// tick and quantizes per-tick travel through its own accumulator.
//
// # Thread Safety
//
// A single mutex serializes Feed, Stop, and the momentum tick callback, so
// an [Engine] is safe for concurrent use. Sinks run under that mutex and
// must not call back into the engine.
package scrollsynth
