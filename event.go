package scrollsynth

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// InputPhase identifies where an input delta sits in a gesture: the contact
// landing, moving, or lifting.
type InputPhase int

const (
	// PhaseUndefined tags output events that no contact produced, i.e.
	// momentum frames and stop markers. It is never valid as Feed input.
	PhaseUndefined InputPhase = iota

	// PhaseBegan opens a gesture session. The delta must be non-zero.
	PhaseBegan

	// PhaseChanged carries a movement delta within an open session.
	PhaseChanged

	// PhaseEnded closes the session and may hand off to momentum.
	PhaseEnded
)

// String returns the phase label used in logs and traces.
func (p InputPhase) String() string {
	switch p {
	case PhaseUndefined:
		return "undefined"
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	default:
		return "invalid"
	}
}

// ParseInputPhase maps a phase label back to its InputPhase. Matching is
// case-insensitive.
func ParseInputPhase(s string) (InputPhase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "undefined":
		return PhaseUndefined, nil
	case "began":
		return PhaseBegan, nil
	case "changed":
		return PhaseChanged, nil
	case "ended":
		return PhaseEnded, nil
	default:
		return PhaseUndefined, fmt.Errorf("unknown input phase %q", s)
	}
}

// MomentumPhase identifies where an output event sits in a momentum decay
// run.
type MomentumPhase int

const (
	// MomentumNone tags events emitted while the contact drives the
	// scroll.
	MomentumNone MomentumPhase = iota

	// MomentumBegin tags the first synthesized momentum frame.
	MomentumBegin

	// MomentumContinue tags intermediate momentum frames.
	MomentumContinue

	// MomentumEnd tags the frame that finishes a momentum run, including
	// the marker emitted by Stop.
	MomentumEnd
)

// String returns the momentum label used in logs and traces.
func (m MomentumPhase) String() string {
	switch m {
	case MomentumNone:
		return "none"
	case MomentumBegin:
		return "begin"
	case MomentumContinue:
		return "continue"
	case MomentumEnd:
		return "end"
	default:
		return "invalid"
	}
}

// Event is one synthesized scroll step. How the fields map onto OS-level
// scroll events is entirely the sink's concern.
type Event struct {
	// Gesture is the gain-scaled pixel delta, quantized. Zero on momentum
	// frames.
	Gesture Vector `json:"gesture"`

	// Point is the pixel delta. Quantized per axis while the contact
	// drives the scroll; during momentum it is the unit direction scaled
	// by the integral per-tick travel.
	Point Vector `json:"point"`

	// Line is the wheel line-unit delta derived from Point.
	Line Vector `json:"line"`

	// Phase mirrors the input phase. Momentum frames and stop markers
	// carry PhaseUndefined.
	Phase InputPhase `json:"phase"`

	// Momentum is MomentumNone while the contact drives the scroll and
	// Begin/Continue/End across the decay tail.
	Momentum MomentumPhase `json:"momentum"`

	// Location is the pointer position read when the event was built.
	Location Vector `json:"location"`
}

// Sink receives synthesized events in emission order. During a gesture,
// Deliver runs on the goroutine that called Feed; during momentum it runs
// on the engine's tick goroutine. Deliver is called with the engine lock
// held and must not call back into the engine.
type Sink interface {
	Deliver(Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

// Deliver calls f(e).
func (f SinkFunc) Deliver(e Event) { f(e) }

// WriterSink writes each event as one JSON line. It is safe for concurrent
// use; the first encode error sticks and suppresses further writes.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewWriterSink returns a sink writing JSON lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Deliver encodes e onto the underlying writer.
func (s *WriterSink) Deliver(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	s.err = s.enc.Encode(e)
}

// Err returns the first write error, if any.
func (s *WriterSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
