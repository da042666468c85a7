package scrollsynth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inputkit/scrollsynth/internal/animate"
)

// Engine turns raw two-axis input deltas into a stream of trackpad-like
// scroll events, including a synthesized momentum decay after the gesture
// ends.
//
// Feed, Stop, and the internal momentum ticks are serialized on one mutex,
// so an Engine is safe for concurrent use, though feeds are expected to
// arrive in phase order from a single input source.
type Engine interface {
	// Feed advances the gesture with one input delta.
	//
	// PhaseBegan opens a session and rejects a zero delta with
	// ErrZeroDelta. PhaseChanged requires an open session and returns
	// ErrNoSession otherwise. PhaseEnded closes the session, always emits
	// a terminal event, and starts momentum when the exit velocity
	// warrants it. Any other phase value panics.
	Feed(delta Vector, phase InputPhase) error

	// Stop cancels a running momentum decay and emits one end marker so
	// consumers always observe a definitive end. When no decay is
	// running, Stop does nothing.
	Stop()

	// Momentum reports whether a momentum decay is currently running.
	Momentum() bool
}

// Clock supplies the engine's notion of time. Tests inject a manual clock;
// a nil Config.Clock selects the system clock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Feel selects a canned decay character.
type Feel int

const (
	// FeelDefault is the balanced factory tuning.
	FeelDefault Feel = iota

	// FeelSnappy spins down quickly with a higher stop floor. Suited to
	// precise document work.
	FeelSnappy

	// FeelFloaty glides long with a low stop floor. Suited to long reads
	// and casual browsing.
	FeelFloaty

	// FeelCustom indicates manual tuning of the drag fields.
	FeelCustom
)

// String returns the label used in tuning files and flags.
func (f Feel) String() string {
	switch f {
	case FeelDefault:
		return "default"
	case FeelSnappy:
		return "snappy"
	case FeelFloaty:
		return "floaty"
	case FeelCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseFeel maps a label from a tuning file or flag to a Feel.
func ParseFeel(s string) (Feel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return FeelDefault, nil
	case "snappy":
		return FeelSnappy, nil
	case "floaty":
		return FeelFloaty, nil
	case "custom":
		return FeelCustom, nil
	default:
		return FeelDefault, fmt.Errorf("%w: unknown feel %q", ErrInvalidConfig, s)
	}
}

// MarshalYAML encodes the feel as its label.
func (f Feel) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML decodes a feel from its label.
func (f *Feel) UnmarshalYAML(value *yaml.Node) error {
	var label string
	if err := value.Decode(&label); err != nil {
		return err
	}
	parsed, err := ParseFeel(label)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FeelSpec returns the drag tuning for a preset feel. FeelCustom returns
// the factory tuning; callers using FeelCustom set the fields themselves.
func FeelSpec(feel Feel) (coefficient, exponent, stopSpeed float64) {
	switch feel {
	case FeelSnappy:
		return snappyDragCoefficient, snappyDragExponent, snappyStopSpeed
	case FeelFloaty:
		return floatyDragCoefficient, floatyDragExponent, floatyStopSpeed
	default:
		return DefaultDragCoefficient, DefaultDragExponent, DefaultStopSpeed
	}
}

// Config holds engine configuration. Numeric fields left zero are filled
// with package defaults by New.
type Config struct {
	// Sink receives every synthesized event. Required.
	Sink Sink `yaml:"-"`

	// Location returns the current pointer position, read at session
	// start and before every emission. Nil pins events to the origin.
	Location func() Vector `yaml:"-"`

	// Feel selects a preset decay tuning. Any value other than
	// FeelCustom overrides DragCoefficient, DragExponent, and StopSpeed
	// with the preset's values.
	Feel Feel `yaml:"feel"`

	// PixelsPerLine converts pixel deltas into wheel line units.
	PixelsPerLine float64 `yaml:"pixels_per_line"`

	// GestureGain scales pixel deltas into the gesture stream.
	GestureGain float64 `yaml:"gesture_gain"`

	// SmootherCapacity is the rolling-average window length for the x, y,
	// and tick-interval streams.
	SmootherCapacity int `yaml:"smoother_capacity"`

	// MaxMomentumStartGap is the longest pause between the final movement
	// and the gesture end that still starts momentum.
	MaxMomentumStartGap time.Duration `yaml:"max_momentum_start_gap"`

	// StopSpeed is the speed, in pixels per second, at and below which
	// momentum is skipped and a running decay finishes.
	StopSpeed float64 `yaml:"stop_speed"`

	// DragCoefficient stretches the decay. Larger values coast longer.
	DragCoefficient float64 `yaml:"drag_coefficient"`

	// DragExponent shapes the decay. Must lie in (0, 1).
	DragExponent float64 `yaml:"drag_exponent"`

	// TickInterval paces momentum frames.
	TickInterval time.Duration `yaml:"tick_interval"`

	// VelocityTransform maps the exit velocity measured at gesture end to
	// the initial momentum velocity, e.g. a power curve boosting fast
	// flicks. Nil means identity.
	VelocityTransform func(Vector) Vector `yaml:"-"`

	// MomentumCancelDistance cuts a momentum run short once the pointer
	// has drifted this many pixels from where the run began. Zero
	// disables the check.
	MomentumCancelDistance float64 `yaml:"momentum_cancel_distance"`

	// Clock supplies timestamps and momentum pacing. Nil selects the
	// system clock.
	Clock Clock `yaml:"-"`

	// Logger receives engine diagnostics. Nil disables logging.
	Logger *zap.Logger `yaml:"-"`
}

// Common errors returned by the engine.
var (
	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrZeroDelta indicates an attempt to begin a gesture with no
	// movement.
	ErrZeroDelta = errors.New("zero delta cannot begin a gesture")

	// ErrNoSession indicates a movement delta with no open gesture.
	ErrNoSession = errors.New("no open gesture session")
)

// Validate checks if the configuration is valid. New applies defaults
// before validating, so a zero numeric field only fails here when Validate
// is called directly.
func (c *Config) Validate() error {
	if c.Sink == nil {
		return fmt.Errorf("%w: sink is required", ErrInvalidConfig)
	}

	if c.PixelsPerLine <= 0 {
		return fmt.Errorf("%w: pixels per line must be positive", ErrInvalidConfig)
	}

	if c.GestureGain <= 0 {
		return fmt.Errorf("%w: gesture gain must be positive", ErrInvalidConfig)
	}

	if c.SmootherCapacity < 1 {
		return fmt.Errorf("%w: smoother capacity must be at least 1", ErrInvalidConfig)
	}

	if c.MaxMomentumStartGap <= 0 {
		return fmt.Errorf("%w: max momentum start gap must be positive", ErrInvalidConfig)
	}

	if c.StopSpeed <= 0 {
		return fmt.Errorf("%w: stop speed must be positive", ErrInvalidConfig)
	}

	if c.DragCoefficient <= 0 {
		return fmt.Errorf("%w: drag coefficient must be positive", ErrInvalidConfig)
	}

	if c.DragExponent <= 0 || c.DragExponent >= 1 {
		return fmt.Errorf("%w: drag exponent must be in (0, 1)", ErrInvalidConfig)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfig)
	}

	if c.MomentumCancelDistance < 0 {
		return fmt.Errorf("%w: momentum cancel distance cannot be negative", ErrInvalidConfig)
	}

	return nil
}

// applyDefaults fills zero fields with package defaults and resolves the
// feel preset.
func (c *Config) applyDefaults() {
	if c.PixelsPerLine == 0 {
		c.PixelsPerLine = DefaultPixelsPerLine
	}

	if c.GestureGain == 0 {
		c.GestureGain = DefaultGestureGain
	}

	if c.SmootherCapacity == 0 {
		c.SmootherCapacity = DefaultSmootherCapacity
	}

	if c.MaxMomentumStartGap == 0 {
		c.MaxMomentumStartGap = DefaultMaxMomentumStartGap
	}

	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}

	if c.Feel != FeelCustom {
		c.DragCoefficient, c.DragExponent, c.StopSpeed = FeelSpec(c.Feel)
	} else {
		if c.DragCoefficient == 0 {
			c.DragCoefficient = DefaultDragCoefficient
		}
		if c.DragExponent == 0 {
			c.DragExponent = DefaultDragExponent
		}
		if c.StopSpeed == 0 {
			c.StopSpeed = DefaultStopSpeed
		}
	}

	if c.Location == nil {
		c.Location = func() Vector { return Vector{} }
	}

	if c.VelocityTransform == nil {
		c.VelocityTransform = func(v Vector) Vector { return v }
	}

	if c.Clock == nil {
		c.Clock = animate.SystemClock()
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// New creates an engine with the given configuration. The config is copied;
// later mutation of the caller's struct has no effect.
func New(config *Config) (Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	cfg := *config
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newGestureEngine(cfg), nil
}
