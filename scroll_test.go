package scrollsynth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validTestConfig() *Config {
	return &Config{
		Sink:                SinkFunc(func(Event) {}),
		Feel:                FeelCustom,
		PixelsPerLine:       DefaultPixelsPerLine,
		GestureGain:         DefaultGestureGain,
		SmootherCapacity:    DefaultSmootherCapacity,
		MaxMomentumStartGap: DefaultMaxMomentumStartGap,
		StopSpeed:           DefaultStopSpeed,
		DragCoefficient:     DefaultDragCoefficient,
		DragExponent:        DefaultDragExponent,
		TickInterval:        DefaultTickInterval,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing sink", func(c *Config) { c.Sink = nil }, true},
		{"zero pixels per line", func(c *Config) { c.PixelsPerLine = 0 }, true},
		{"negative pixels per line", func(c *Config) { c.PixelsPerLine = -1 }, true},
		{"zero gesture gain", func(c *Config) { c.GestureGain = 0 }, true},
		{"zero smoother capacity", func(c *Config) { c.SmootherCapacity = 0 }, true},
		{"zero momentum gap", func(c *Config) { c.MaxMomentumStartGap = 0 }, true},
		{"zero stop speed", func(c *Config) { c.StopSpeed = 0 }, true},
		{"zero drag coefficient", func(c *Config) { c.DragCoefficient = 0 }, true},
		{"drag exponent at zero", func(c *Config) { c.DragExponent = 0 }, true},
		{"drag exponent at one", func(c *Config) { c.DragExponent = 1 }, true},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }, true},
		{"negative cancel distance", func(c *Config) { c.MomentumCancelDistance = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNew_NilAndEmptyConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	// No sink: defaults cannot save it.
	_, err = New(&Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{Sink: SinkFunc(func(Event) {})}
	cfg.applyDefaults()

	assert.Equal(t, float64(DefaultPixelsPerLine), cfg.PixelsPerLine)
	assert.Equal(t, float64(DefaultGestureGain), cfg.GestureGain)
	assert.Equal(t, DefaultSmootherCapacity, cfg.SmootherCapacity)
	assert.Equal(t, DefaultMaxMomentumStartGap, cfg.MaxMomentumStartGap)
	assert.Equal(t, time.Duration(DefaultTickInterval), cfg.TickInterval)

	// FeelDefault resolves to the factory drag tuning.
	assert.Equal(t, float64(DefaultDragCoefficient), cfg.DragCoefficient)
	assert.Equal(t, float64(DefaultDragExponent), cfg.DragExponent)
	assert.Equal(t, float64(DefaultStopSpeed), cfg.StopSpeed)

	assert.NotNil(t, cfg.Location)
	assert.NotNil(t, cfg.VelocityTransform)
	assert.NotNil(t, cfg.Clock)
	assert.NotNil(t, cfg.Logger)

	require.NoError(t, cfg.Validate())
}

func TestConfig_FeelOverridesDragFields(t *testing.T) {
	cfg := &Config{
		Sink:            SinkFunc(func(Event) {}),
		Feel:            FeelSnappy,
		DragCoefficient: 123,
		DragExponent:    0.5,
		StopSpeed:       9,
	}
	cfg.applyDefaults()

	assert.Equal(t, float64(snappyDragCoefficient), cfg.DragCoefficient)
	assert.Equal(t, float64(snappyDragExponent), cfg.DragExponent)
	assert.Equal(t, float64(snappyStopSpeed), cfg.StopSpeed)
}

func TestConfig_FeelCustomKeepsExplicitFields(t *testing.T) {
	cfg := &Config{
		Sink:            SinkFunc(func(Event) {}),
		Feel:            FeelCustom,
		DragCoefficient: 42,
		DragExponent:    0.55,
		StopSpeed:       2.5,
	}
	cfg.applyDefaults()

	assert.Equal(t, 42.0, cfg.DragCoefficient)
	assert.Equal(t, 0.55, cfg.DragExponent)
	assert.Equal(t, 2.5, cfg.StopSpeed)
}

func TestFeelSpec(t *testing.T) {
	tests := []struct {
		feel            Feel
		wantCoefficient float64
		wantExponent    float64
		wantStopSpeed   float64
	}{
		{FeelDefault, DefaultDragCoefficient, DefaultDragExponent, DefaultStopSpeed},
		{FeelSnappy, snappyDragCoefficient, snappyDragExponent, snappyStopSpeed},
		{FeelFloaty, floatyDragCoefficient, floatyDragExponent, floatyStopSpeed},
		{FeelCustom, DefaultDragCoefficient, DefaultDragExponent, DefaultStopSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.feel.String(), func(t *testing.T) {
			c, e, s := FeelSpec(tt.feel)
			assert.Equal(t, tt.wantCoefficient, c)
			assert.Equal(t, tt.wantExponent, e)
			assert.Equal(t, tt.wantStopSpeed, s)
		})
	}
}

func TestParseFeel(t *testing.T) {
	tests := []struct {
		in      string
		want    Feel
		wantErr bool
	}{
		{"default", FeelDefault, false},
		{"", FeelDefault, false},
		{"snappy", FeelSnappy, false},
		{"Floaty", FeelFloaty, false},
		{" custom ", FeelCustom, false},
		{"bouncy", FeelDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFeel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeel_StringRoundTrip(t *testing.T) {
	for _, feel := range []Feel{FeelDefault, FeelSnappy, FeelFloaty, FeelCustom} {
		parsed, err := ParseFeel(feel.String())
		require.NoError(t, err)
		assert.Equal(t, feel, parsed)
	}
}

func TestFeel_YAML(t *testing.T) {
	out, err := yaml.Marshal(FeelFloaty)
	require.NoError(t, err)
	assert.Equal(t, "floaty\n", string(out))

	var feel Feel
	require.NoError(t, yaml.Unmarshal([]byte("snappy"), &feel))
	assert.Equal(t, FeelSnappy, feel)

	require.Error(t, yaml.Unmarshal([]byte("bouncy"), &feel))
}

func TestTuningFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")

	in := &Config{
		Feel:                FeelCustom,
		PixelsPerLine:       7.5,
		GestureGain:         1.3,
		SmootherCapacity:    8,
		MaxMomentumStartGap: 250 * time.Millisecond,
		StopSpeed:           2,
		DragCoefficient:     55,
		DragExponent:        0.8,
		TickInterval:        time.Second / 120,
	}
	require.NoError(t, SaveTuning(path, in))

	out, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, in.Feel, out.Feel)
	assert.Equal(t, in.PixelsPerLine, out.PixelsPerLine)
	assert.Equal(t, in.GestureGain, out.GestureGain)
	assert.Equal(t, in.SmootherCapacity, out.SmootherCapacity)
	assert.Equal(t, in.MaxMomentumStartGap, out.MaxMomentumStartGap)
	assert.Equal(t, in.StopSpeed, out.StopSpeed)
	assert.Equal(t, in.DragCoefficient, out.DragCoefficient)
	assert.Equal(t, in.DragExponent, out.DragExponent)
	assert.Equal(t, in.TickInterval, out.TickInterval)
}

func TestLoadTuning_Missing(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadTuning_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixels_per_line: [not a number\n"), 0o644))

	_, err := LoadTuning(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
