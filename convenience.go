package scrollsynth

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// NewDefault creates an engine with factory tuning delivering to sink.
func NewDefault(sink Sink) (Engine, error) {
	return New(&Config{Sink: sink})
}

// NewWithFeel creates an engine with a preset feel delivering to sink.
func NewWithFeel(sink Sink, feel Feel) (Engine, error) {
	return New(&Config{Sink: sink, Feel: feel})
}

// NewFunc creates an engine with factory tuning delivering each event to
// fn.
func NewFunc(fn func(Event)) (Engine, error) {
	return New(&Config{Sink: SinkFunc(fn)})
}

// PowerTransform returns a velocity transform that raises each component's
// magnitude to exponent, keeps its sign, and scales the result by gain.
// Assign it to Config.VelocityTransform to boost fast flicks into longer
// momentum than the identity mapping gives.
func PowerTransform(gain, exponent float64) func(Vector) Vector {
	return func(v Vector) Vector {
		return v.Apply(func(c float64) float64 {
			return math.Copysign(gain*math.Pow(math.Abs(c), exponent), c)
		})
	}
}

// LoadTuning reads a yaml tuning file into a Config. Only the numeric
// tunables and the feel can come from a file; the sink, location provider,
// velocity transform, clock, and logger are wired in code by the caller.
func LoadTuning(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// SaveTuning writes the numeric tunables of cfg as a yaml tuning file, the
// counterpart of LoadTuning.
func SaveTuning(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
