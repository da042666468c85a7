package subpix

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Conservation bound: the integer total may never drift a full unit
	// from the real total.
	conservationBound = 1.0

	// Deterministic seed for randomized streams.
	testSeed = 42

	testStreamLength = 10000
)

// assertConserved feeds the sequence and checks the conservation invariant
// after every prefix, not just at the end.
func assertConserved(t *testing.T, acc *Accumulator, inputs []float64) {
	t.Helper()

	var sumReal float64
	var sumInt int
	for i, v := range inputs {
		sumReal += v
		sumInt += acc.Accumulate(v)
		require.Less(t, math.Abs(float64(sumInt)-sumReal), conservationBound,
			"drift exceeded after %d inputs", i+1)
	}
}

// TestAccumulator_RoundConservation verifies the no-drift invariant for the
// round policy over crafted sequences.
func TestAccumulator_RoundConservation(t *testing.T) {
	tests := []struct {
		name   string
		inputs []float64
	}{
		{"small_positive_steps", []float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.4}},
		{"alternating_signs", []float64{0.7, -0.7, 0.7, -0.7, 0.7}},
		{"tiny_steps", []float64{0.01, 0.02, 0.03, 0.01, 0.02, 0.03}},
		{"mixed_magnitudes", []float64{10.5, -3.25, 0.125, 7.875, -15.0}},
		{"exact_integers", []float64{1, -2, 3, -4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewRound()
			assertConserved(t, &acc, tt.inputs)
		})
	}
}

// TestAccumulator_BiasedConservation verifies the no-drift invariant for
// both biased directions.
func TestAccumulator_BiasedConservation(t *testing.T) {
	inputs := []float64{0.9, 0.9, -0.3, 2.45, -1.05, 0.9, 0.9}

	t.Run("floor", func(t *testing.T) {
		acc := NewBiased(1)
		assertConserved(t, &acc, inputs)
	})

	t.Run("ceil", func(t *testing.T) {
		acc := NewBiased(-1)
		assertConserved(t, &acc, inputs)
	})
}

// TestAccumulator_RandomStreamConservation verifies conservation over a long
// pseudo-random stream for every policy.
func TestAccumulator_RandomStreamConservation(t *testing.T) {
	policies := []struct {
		name string
		make func() Accumulator
	}{
		{"round", NewRound},
		{"biased_floor", func() Accumulator { return NewBiased(1) }},
		{"biased_ceil", func() Accumulator { return NewBiased(-1) }},
	}

	for _, p := range policies {
		t.Run(p.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(testSeed))
			acc := p.make()

			var sumReal float64
			var sumInt int
			for i := 0; i < testStreamLength; i++ {
				v := (rng.Float64() - 0.5) * 20 // [-10, 10)
				sumReal += v
				sumInt += acc.Accumulate(v)
				require.Less(t, math.Abs(float64(sumInt)-sumReal), conservationBound,
					"drift exceeded at step %d", i)
			}
		})
	}
}

// TestAccumulator_RoundTiesAwayFromZero verifies tie handling on .5 inputs.
func TestAccumulator_RoundTiesAwayFromZero(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  int
	}{
		{"positive_half", 0.5, 1},
		{"negative_half", -0.5, -1},
		{"positive_one_and_half", 1.5, 2},
		{"negative_one_and_half", -1.5, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewRound()
			assert.Equal(t, tt.want, acc.Accumulate(tt.input))
		})
	}
}

// TestAccumulator_BiasedDirection verifies floor vs ceil selection by bias
// sign and the resulting remainder ranges.
func TestAccumulator_BiasedDirection(t *testing.T) {
	t.Run("floor_holds_back", func(t *testing.T) {
		acc := NewBiased(1)
		assert.Equal(t, 0, acc.Accumulate(0.9), "floor should hold back")
		assert.Equal(t, 1, acc.Accumulate(0.9), "carried remainder should release")
		assert.GreaterOrEqual(t, acc.Remainder(), 0.0, "floor remainder stays non-negative")
		assert.Less(t, acc.Remainder(), 1.0)
	})

	t.Run("ceil_holds_back", func(t *testing.T) {
		acc := NewBiased(-1)
		assert.Equal(t, 0, acc.Accumulate(-0.9), "ceil should hold back")
		assert.Equal(t, -1, acc.Accumulate(-0.9), "carried remainder should release")
		assert.LessOrEqual(t, acc.Remainder(), 0.0, "ceil remainder stays non-positive")
		assert.Greater(t, acc.Remainder(), -1.0)
	})
}

// TestAccumulator_LastAndReset verifies last-delta tracking and reset.
func TestAccumulator_LastAndReset(t *testing.T) {
	acc := NewRound()

	acc.Accumulate(2.6)
	assert.Equal(t, 3, acc.Last())
	assert.InDelta(t, -0.4, acc.Remainder(), 1e-12)

	acc.Reset()
	assert.Equal(t, 0, acc.Last(), "reset should clear last delta")
	assert.Zero(t, acc.Remainder(), "reset should clear remainder")

	// Post-reset behavior matches a fresh accumulator.
	assert.Equal(t, 0, acc.Accumulate(0.4))
}

// TestAxes_IndependentRemainders verifies that the x and y remainders never
// interact.
func TestAxes_IndependentRemainders(t *testing.T) {
	axes := NewRoundAxes()

	// x accumulates fractions while y runs integers.
	for i := 0; i < 4; i++ {
		dx, dy := axes.Accumulate(0.3, 2.0)
		assert.Equal(t, 2, dy, "integer axis should be unaffected by the other axis")
		_ = dx
	}

	// 4 * 0.3 = 1.2 total; exactly one unit should have been released.
	assert.InDelta(t, 0.2, axes.X.Remainder(), 1e-12, "x remainder mismatch")
	assert.Zero(t, axes.Y.Remainder(), "y remainder mismatch")
}

// TestAxes_Reset verifies both axes clear together.
func TestAxes_Reset(t *testing.T) {
	axes := NewBiasedAxes(1)
	axes.Accumulate(0.7, 0.7)
	require.NotZero(t, axes.X.Remainder())

	axes.Reset()
	assert.Zero(t, axes.X.Remainder())
	assert.Zero(t, axes.Y.Remainder())
}

// BenchmarkAccumulator benchmarks the quantization hot path.
func BenchmarkAccumulator(b *testing.B) {
	acc := NewRound()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = acc.Accumulate(0.37)
	}
}
