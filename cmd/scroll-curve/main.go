// Command scroll-curve prints deceleration profiles for momentum tunings.
// It answers "how far and how long does a flick coast" without running an
// engine: the closed-form drag curve is evaluated directly.
//
// Usage:
//
//	scroll-curve
//	scroll-curve -feel floaty
//	scroll-curve -config tuning.yaml -v0 1500
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/inputkit/scrollsynth"
	"github.com/inputkit/scrollsynth/internal/drag"
)

const (
	// Frame profile display parameters
	profileFrameRate = 60
	maxFramesToShow  = 12

	// Exit speed for the frame profile, px/s. A medium flick.
	defaultProfileSpeed = 800.0
)

// tuning is one drag parameter set to profile.
type tuning struct {
	name          string
	coefficient   float64
	exponent      float64
	stopSpeed     float64
	pixelsPerLine float64
}

// exitSpeeds cover the realistic flick range.
var exitSpeeds = []struct {
	speed float64
	name  string
}{
	{150, "slow push"},
	{400, "gentle flick"},
	{800, "medium flick"},
	{1500, "fast flick"},
	{3000, "hard flick"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feelName := flag.String("feel", "", "profile one feel preset instead of all three")
	configPath := flag.String("config", "", "profile the tuning in this YAML file")
	v0 := flag.Float64("v0", defaultProfileSpeed, "exit speed for the frame profile, px/s")
	flag.Parse()

	tunings, err := selectTunings(*feelName, *configPath)
	if err != nil {
		return err
	}

	for _, tn := range tunings {
		if err := printRunTable(tn); err != nil {
			return err
		}
	}

	return printFrameProfile(tunings[0], *v0)
}

func selectTunings(feelName, configPath string) ([]tuning, error) {
	switch {
	case configPath != "":
		cfg, err := scrollsynth.LoadTuning(configPath)
		if err != nil {
			return nil, err
		}
		return []tuning{fromConfig(configPath, cfg)}, nil

	case feelName != "":
		feel, err := scrollsynth.ParseFeel(feelName)
		if err != nil {
			return nil, err
		}
		return []tuning{fromFeel(feel)}, nil

	default:
		feels := []scrollsynth.Feel{
			scrollsynth.FeelDefault,
			scrollsynth.FeelSnappy,
			scrollsynth.FeelFloaty,
		}
		tunings := make([]tuning, len(feels))
		for i, feel := range feels {
			tunings[i] = fromFeel(feel)
		}
		return tunings, nil
	}
}

func fromFeel(feel scrollsynth.Feel) tuning {
	c, e, s := scrollsynth.FeelSpec(feel)
	return tuning{
		name:          feel.String(),
		coefficient:   c,
		exponent:      e,
		stopSpeed:     s,
		pixelsPerLine: scrollsynth.DefaultPixelsPerLine,
	}
}

// fromConfig mirrors the engine's defaulting: a preset feel overrides the
// drag fields, a custom feel keeps them with zeros filled from defaults.
func fromConfig(path string, cfg *scrollsynth.Config) tuning {
	tn := tuning{
		name:          path,
		coefficient:   cfg.DragCoefficient,
		exponent:      cfg.DragExponent,
		stopSpeed:     cfg.StopSpeed,
		pixelsPerLine: cfg.PixelsPerLine,
	}
	if cfg.Feel != scrollsynth.FeelCustom {
		tn.coefficient, tn.exponent, tn.stopSpeed = scrollsynth.FeelSpec(cfg.Feel)
	}
	if tn.coefficient == 0 {
		tn.coefficient = scrollsynth.DefaultDragCoefficient
	}
	if tn.exponent == 0 {
		tn.exponent = scrollsynth.DefaultDragExponent
	}
	if tn.stopSpeed == 0 {
		tn.stopSpeed = scrollsynth.DefaultStopSpeed
	}
	if tn.pixelsPerLine == 0 {
		tn.pixelsPerLine = scrollsynth.DefaultPixelsPerLine
	}
	return tn
}

func printRunTable(tn tuning) error {
	fmt.Printf("=== %s (coefficient=%.1f exponent=%.2f stop=%.1f) ===\n",
		tn.name, tn.coefficient, tn.exponent, tn.stopSpeed)
	fmt.Printf("  %-20s %10s %12s %10s\n", "exit speed", "duration", "distance", "lines")

	for _, es := range exitSpeeds {
		label := fmt.Sprintf("%s (%.0f)", es.name, es.speed)

		curve, err := drag.New(drag.Params{
			Coefficient:  tn.coefficient,
			Exponent:     tn.exponent,
			InitialSpeed: es.speed,
			StopSpeed:    tn.stopSpeed,
		})
		if errors.Is(err, drag.ErrBelowStopSpeed) {
			fmt.Printf("  %-20s %10s\n", label, "no run")
			continue
		}
		if err != nil {
			return err
		}

		fmt.Printf("  %-20s %9.2fs %10.0fpx %10.1f\n",
			label,
			curve.Duration().Seconds(),
			curve.TotalDistance(),
			curve.TotalDistance()/tn.pixelsPerLine)
	}

	fmt.Println()
	return nil
}

// printFrameProfile shows the frame-by-frame deltas the animator would
// produce at the profile frame rate, before quantization.
func printFrameProfile(tn tuning, v0 float64) error {
	fmt.Printf("=== frame profile: %s at %.0f px/s, %d Hz ===\n", tn.name, v0, profileFrameRate)

	curve, err := drag.New(drag.Params{
		Coefficient:  tn.coefficient,
		Exponent:     tn.exponent,
		InitialSpeed: v0,
		StopSpeed:    tn.stopSpeed,
	})
	if errors.Is(err, drag.ErrBelowStopSpeed) {
		fmt.Println("  exit speed at or below stop speed, no momentum run")
		return nil
	}
	if err != nil {
		return err
	}

	interval := time.Second / profileFrameRate
	totalFrames := int(curve.Duration() / interval)

	fmt.Printf("  %-8s %12s %12s %10s\n", "frame", "speed px/s", "travel px", "delta px")
	prev := 0.0
	for i := 1; i <= maxFramesToShow && i <= totalFrames; i++ {
		elapsed := time.Duration(i) * interval
		d := curve.DistanceAt(elapsed)
		fmt.Printf("  %-8d %12.1f %12.1f %10.2f\n", i, curve.SpeedAt(elapsed), d, d-prev)
		prev = d
	}
	if totalFrames > maxFramesToShow {
		fmt.Printf("  ... (%d more frames)\n", totalFrames-maxFramesToShow)
	}

	fmt.Printf("\nTotal: %.2fs, %.0f px over %d frames\n",
		curve.Duration().Seconds(), curve.TotalDistance(), totalFrames)
	return nil
}
