// Command scroll-trace replays a recorded input trace through a gesture
// engine and prints the synthesized event stream as JSON lines on stdout.
//
// Usage:
//
//	scroll-trace drag.trace
//	scroll-trace -speed 4 -feel snappy drag.trace
//	scroll-trace -summary -quiet drag.trace
//
// The speed multiplier compresses the gaps between recorded deltas; the
// momentum tail still plays out on the wall clock. The trace integrity
// footer is verified before replay when present.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/inputkit/scrollsynth"
	"github.com/inputkit/scrollsynth/internal/trace"
)

const (
	momentumPollInterval = 25 * time.Millisecond

	// A decay tail longer than this is treated as runaway tuning.
	momentumWaitTimeout = 2 * time.Minute
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	speed := flag.Float64("speed", 1.0, "input replay speed multiplier")
	feelName := flag.String("feel", "", "feel preset: default, snappy, floaty")
	configPath := flag.String("config", "", "load engine tuning from this YAML file")
	summary := flag.Bool("summary", false, "print a replay summary to stderr when done")
	quiet := flag.Bool("quiet", false, "suppress the JSONL event stream")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] recording.trace\n\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("expected one trace file")
	}
	if *speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", *speed)
	}

	path := flag.Arg(0)
	records, verified, err := trace.ReadFile(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("trace %s holds no records", path)
	}
	if !verified {
		fmt.Fprintf(os.Stderr, "warning: %s has no integrity footer\n", path)
	}

	cfg := scrollsynth.Config{}
	if *configPath != "" {
		loaded, err := scrollsynth.LoadTuning(*configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if *feelName != "" {
		feel, err := scrollsynth.ParseFeel(*feelName)
		if err != nil {
			return err
		}
		cfg.Feel = feel
	}

	out := scrollsynth.NewWriterSink(os.Stdout)
	tl := newTally()
	cfg.Sink = scrollsynth.SinkFunc(func(e scrollsynth.Event) {
		tl.add(e)
		if !*quiet {
			out.Deliver(e)
		}
	})

	eng, err := scrollsynth.New(&cfg)
	if err != nil {
		return err
	}

	if err := replay(eng, records, *speed); err != nil {
		return err
	}
	waitForMomentum(eng)
	eng.Stop()

	if err := out.Err(); err != nil {
		return fmt.Errorf("write events: %w", err)
	}

	if *summary {
		fmt.Fprintf(os.Stderr, "trace: %d records", len(records))
		if verified {
			fmt.Fprintf(os.Stderr, " (verified)")
		}
		fmt.Fprintln(os.Stderr)
		tl.print(os.Stderr, cfg.PixelsPerLine)
	}
	return nil
}

// replay feeds the records in order, compressing recorded gaps by the
// speed multiplier. Feed rejections are reported and skipped so one bad
// record does not abort the run.
func replay(eng scrollsynth.Engine, records []trace.Record, speed float64) error {
	prev := records[0].TS
	for i, rec := range records {
		if gap := rec.TS - prev; gap > 0 {
			time.Sleep(time.Duration(float64(gap) / speed))
		}
		prev = rec.TS

		phase, err := scrollsynth.ParseInputPhase(rec.Phase)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if err := eng.Feed(scrollsynth.Vec(rec.DX, rec.DY), phase); err != nil {
			fmt.Fprintf(os.Stderr, "warning: record %d (%s): %v\n", i+1, rec.Phase, err)
		}
	}
	return nil
}

// waitForMomentum blocks until the decay tail finishes.
func waitForMomentum(eng scrollsynth.Engine) {
	deadline := time.Now().Add(momentumWaitTimeout)
	for eng.Momentum() {
		if time.Now().After(deadline) {
			fmt.Fprintln(os.Stderr, "warning: momentum still running at timeout, stopping")
			return
		}
		time.Sleep(momentumPollInterval)
	}
}

// tally accumulates replay statistics. Momentum frames arrive on the
// engine's tick goroutine, so counts are mutex guarded.
type tally struct {
	mu       sync.Mutex
	events   int
	input    map[scrollsynth.InputPhase]int
	momentum map[scrollsynth.MomentumPhase]int
	travelX  float64
	travelY  float64
}

func newTally() *tally {
	return &tally{
		input:    make(map[scrollsynth.InputPhase]int),
		momentum: make(map[scrollsynth.MomentumPhase]int),
	}
}

func (t *tally) add(e scrollsynth.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events++
	if e.Momentum == scrollsynth.MomentumNone {
		t.input[e.Phase]++
	} else {
		t.momentum[e.Momentum]++
	}
	t.travelX += math.Abs(e.Point.X)
	t.travelY += math.Abs(e.Point.Y)
}

func (t *tally) print(w *os.File, pixelsPerLine float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pixelsPerLine <= 0 {
		pixelsPerLine = scrollsynth.DefaultPixelsPerLine
	}

	fmt.Fprintf(w, "events: %d synthesized\n", t.events)
	fmt.Fprintf(w, "  input    began=%d changed=%d ended=%d\n",
		t.input[scrollsynth.PhaseBegan],
		t.input[scrollsynth.PhaseChanged],
		t.input[scrollsynth.PhaseEnded])
	fmt.Fprintf(w, "  momentum begin=%d continue=%d end=%d\n",
		t.momentum[scrollsynth.MomentumBegin],
		t.momentum[scrollsynth.MomentumContinue],
		t.momentum[scrollsynth.MomentumEnd])
	fmt.Fprintf(w, "travel: %.1f px x, %.1f px y (%.1f lines x, %.1f lines y)\n",
		t.travelX, t.travelY,
		t.travelX/pixelsPerLine, t.travelY/pixelsPerLine)
}
