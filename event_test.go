package scrollsynth

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputPhase_String(t *testing.T) {
	tests := []struct {
		phase InputPhase
		want  string
	}{
		{PhaseUndefined, "undefined"},
		{PhaseBegan, "began"},
		{PhaseChanged, "changed"},
		{PhaseEnded, "ended"},
		{InputPhase(42), "invalid"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestParseInputPhase(t *testing.T) {
	tests := []struct {
		label   string
		want    InputPhase
		wantErr bool
	}{
		{"began", PhaseBegan, false},
		{"changed", PhaseChanged, false},
		{"ended", PhaseEnded, false},
		{"undefined", PhaseUndefined, false},
		{"Began", PhaseBegan, false},
		{" ended ", PhaseEnded, false},
		{"lifted", PhaseUndefined, true},
		{"", PhaseUndefined, true},
	}

	for _, tt := range tests {
		got, err := ParseInputPhase(tt.label)
		if tt.wantErr {
			assert.Error(t, err, "label %q", tt.label)
			continue
		}
		require.NoError(t, err, "label %q", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestMomentumPhase_String(t *testing.T) {
	tests := []struct {
		phase MomentumPhase
		want  string
	}{
		{MomentumNone, "none"},
		{MomentumBegin, "begin"},
		{MomentumContinue, "continue"},
		{MomentumEnd, "end"},
		{MomentumPhase(42), "invalid"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestSinkFunc(t *testing.T) {
	var got Event
	sink := SinkFunc(func(e Event) { got = e })

	sink.Deliver(Event{Phase: PhaseBegan, Point: Vec(1, 2)})
	assert.Equal(t, PhaseBegan, got.Phase)
	assert.Equal(t, Vec(1, 2), got.Point)
}

func TestWriterSink_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	first := Event{
		Gesture:  Vec(12, 0),
		Point:    Vec(10, 0),
		Line:     Vec(1, 0),
		Phase:    PhaseBegan,
		Momentum: MomentumNone,
		Location: Vec(640, 480),
	}
	second := Event{
		Point:    Vec(3, 0),
		Line:     Vec(0.3, 0),
		Phase:    PhaseUndefined,
		Momentum: MomentumContinue,
	}

	sink.Deliver(first)
	sink.Deliver(second)
	require.NoError(t, sink.Err())

	scanner := bufio.NewScanner(&buf)

	require.True(t, scanner.Scan())
	var decodedFirst Event
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &decodedFirst))
	assert.Equal(t, first, decodedFirst)

	require.True(t, scanner.Scan())
	var decodedSecond Event
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &decodedSecond))
	assert.Equal(t, second, decodedSecond)

	assert.False(t, scanner.Scan(), "exactly one line per event")
}

// failingWriter errors on every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestWriterSink_StickyError(t *testing.T) {
	sink := NewWriterSink(failingWriter{})

	sink.Deliver(Event{Phase: PhaseBegan})
	require.Error(t, sink.Err())
	firstErr := sink.Err()

	// Later deliveries are dropped without touching the writer again.
	sink.Deliver(Event{Phase: PhaseEnded})
	assert.Equal(t, firstErr, sink.Err())
}
