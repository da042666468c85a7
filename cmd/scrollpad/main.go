// Command scrollpad is an interactive terminal playground for the scroll
// synthesizer. Mouse wheel impulses drive a gesture engine, and the
// synthesized event stream pans a text viewport so the smoothing,
// quantization, and momentum tail can be felt directly.
//
// Usage:
//
//	scrollpad
//	scrollpad -feel snappy
//	scrollpad -config tuning.yaml -trace drag.trace
//	scrollpad -debug scrollpad.log
//
// Recorded traces replay through scroll-trace. Debug logs go to a file
// because the terminal is owned by the UI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/inputkit/scrollsynth"
	"github.com/inputkit/scrollsynth/internal/trace"
)

const (
	// Redraw cadence (~60 FPS).
	frameInterval = 16 * time.Millisecond

	// One wheel impulse from a clicky mouse maps onto this many pixels of
	// gesture travel.
	pixelsPerImpulse = 12.0

	// A wheel pause longer than this closes the gesture session. Checked on
	// the redraw tick, so the effective gap is quantized to frameInterval.
	sessionGap = 150 * time.Millisecond

	// Synthesized events queue here between redraws; overflow is dropped.
	eventBufferSize = 256

	// Dimensions of the generated scrollable text body.
	padLineCount = 600
	padLineWidth = 400
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feelName := flag.String("feel", "", "feel preset: default, snappy, floaty")
	configPath := flag.String("config", "", "load engine tuning from this YAML file")
	tracePath := flag.String("trace", "", "record wheel input to this trace file")
	debugPath := flag.String("debug", "", "write engine debug logs to this file")
	flag.Parse()

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
	if *debugPath != "" {
		logger, err := newFileLogger(*debugPath)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		cfg.Logger = logger
	}

	var recorder *trace.Writer
	var traceFile *os.File
	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		traceFile = f
		recorder = trace.NewWriter(f)
	}

	p, err := newPad(cfg, recorder)
	if err != nil {
		if traceFile != nil {
			_ = traceFile.Close()
		}
		return err
	}

	p.run()
	p.cleanup()

	// The screen is released, plain output works again.
	if recorder != nil {
		if err := recorder.Finish(); err != nil {
			_ = traceFile.Close()
			return fmt.Errorf("finish trace: %w", err)
		}
		if err := traceFile.Close(); err != nil {
			return err
		}
		fmt.Printf("recorded %d input deltas to %s\n", recorder.Count(), *tracePath)
	}
	if p.traceErr != nil {
		return fmt.Errorf("trace recording: %w", p.traceErr)
	}
	return nil
}

// newFileLogger builds a development-format zap logger writing to path.
func newFileLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

type pad struct {
	screen        tcell.Screen
	width, height int

	engine scrollsynth.Engine
	events chan scrollsynth.Event

	// Pointer position, written by the UI goroutine and read by the
	// engine's Location callback on the momentum tick goroutine.
	posMu  sync.Mutex
	mouseX float64
	mouseY float64

	// Wheel-driven gesture session.
	inGesture bool
	lastWheel time.Time
	lastDir   scrollsynth.Vector

	// Viewport over the generated text body.
	lines   []string
	offsetX float64
	offsetY float64

	last    scrollsynth.Event
	fed     int
	applied int
	lastErr error

	recorder *trace.Writer
	traceErr error
}

func newPad(cfg scrollsynth.Config, recorder *trace.Writer) (*pad, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	p := &pad{
		screen:   screen,
		events:   make(chan scrollsynth.Event, eventBufferSize),
		lines:    generateLines(padLineCount),
		recorder: recorder,
	}
	p.width, p.height = screen.Size()

	cfg.Sink = scrollsynth.SinkFunc(p.deliver)
	cfg.Location = p.pointerLocation

	eng, err := scrollsynth.New(&cfg)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	p.engine = eng
	return p, nil
}

// generateLines builds a deterministic text body wide and tall enough to
// pan through on both axes.
func generateLines(n int) []string {
	words := []string{"pan", "drag", "flick", "coast", "settle", "drift", "glide", "carry"}
	lines := make([]string, n)
	for i := range lines {
		var b strings.Builder
		fmt.Fprintf(&b, "%4d |", i+1)
		for b.Len() < padLineWidth {
			fmt.Fprintf(&b, " %s", words[(i+b.Len())%len(words)])
		}
		lines[i] = b.String()
	}
	return lines
}

// deliver runs under the engine lock; it only hands the event to the UI
// loop. Overflow is dropped rather than blocking the engine.
func (p *pad) deliver(e scrollsynth.Event) {
	select {
	case p.events <- e:
	default:
	}
}

func (p *pad) pointerLocation() scrollsynth.Vector {
	p.posMu.Lock()
	defer p.posMu.Unlock()
	return scrollsynth.Vec(p.mouseX, p.mouseY)
}

func (p *pad) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- p.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !p.handleInput(ev) {
				return
			}

		case <-ticker.C:
			p.closeStaleGesture()
			p.drainEvents()
			p.draw()
		}
	}
}

func (p *pad) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'g':
				p.offsetX, p.offsetY = 0, 0
			case 's':
				p.engine.Stop()
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		p.posMu.Lock()
		p.mouseX, p.mouseY = float64(x), float64(y)
		p.posMu.Unlock()

		if delta := wheelDelta(ev.Buttons()); !delta.IsZero() {
			p.feedWheel(delta)
		}

	case *tcell.EventResize:
		p.width, p.height = p.screen.Size()
		p.screen.Sync()
	}

	return true
}

// wheelDelta maps wheel button bits onto a pixel delta in viewport travel
// direction. Diagonal wheels report both axes in one event.
func wheelDelta(mask tcell.ButtonMask) scrollsynth.Vector {
	var d scrollsynth.Vector
	if mask&tcell.WheelUp != 0 {
		d.Y -= pixelsPerImpulse
	}
	if mask&tcell.WheelDown != 0 {
		d.Y += pixelsPerImpulse
	}
	if mask&tcell.WheelLeft != 0 {
		d.X -= pixelsPerImpulse
	}
	if mask&tcell.WheelRight != 0 {
		d.X += pixelsPerImpulse
	}
	return d
}

// feedWheel turns a stream of discrete wheel impulses into gesture
// sessions: the first impulse opens one, a direction flip closes and
// reopens, and closeStaleGesture ends it after a pause.
func (p *pad) feedWheel(delta scrollsynth.Vector) {
	flip := delta.X*p.lastDir.X < 0 || delta.Y*p.lastDir.Y < 0
	if p.inGesture && flip {
		p.feed(scrollsynth.Vector{}, scrollsynth.PhaseEnded)
		p.inGesture = false
	}

	phase := scrollsynth.PhaseChanged
	if !p.inGesture {
		phase = scrollsynth.PhaseBegan
		p.inGesture = true
	}
	p.feed(delta, phase)
	p.lastDir = delta
	p.lastWheel = time.Now()
}

func (p *pad) closeStaleGesture() {
	if p.inGesture && time.Since(p.lastWheel) > sessionGap {
		p.feed(scrollsynth.Vector{}, scrollsynth.PhaseEnded)
		p.inGesture = false
	}
}

func (p *pad) feed(delta scrollsynth.Vector, phase scrollsynth.InputPhase) {
	if err := p.engine.Feed(delta, phase); err != nil {
		p.lastErr = err
	}
	p.fed++

	if p.recorder != nil && p.traceErr == nil {
		p.traceErr = p.recorder.Append(trace.Record{
			TS:    time.Now().UnixNano(),
			DX:    delta.X,
			DY:    delta.Y,
			Phase: phase.String(),
		})
	}
}

func (p *pad) drainEvents() {
	for {
		select {
		case e := <-p.events:
			p.offsetX += e.Point.X
			p.offsetY += e.Point.Y
			p.clampOffsets()
			p.last = e
			p.applied++
		default:
			return
		}
	}
}

func (p *pad) clampOffsets() {
	maxY := float64(len(p.lines) - 1)
	maxX := float64(padLineWidth - 1)

	if p.offsetY < 0 {
		p.offsetY = 0
	} else if p.offsetY > maxY {
		p.offsetY = maxY
	}
	if p.offsetX < 0 {
		p.offsetX = 0
	} else if p.offsetX > maxX {
		p.offsetX = maxX
	}
}

func (p *pad) draw() {
	p.screen.Clear()

	top := int(p.offsetY)
	left := int(p.offsetX)
	for row := 0; row < p.height-1; row++ {
		idx := top + row
		if idx < 0 || idx >= len(p.lines) {
			continue
		}
		line := p.lines[idx]
		if left < len(line) {
			p.drawText(0, row, tcell.StyleDefault, line[left:])
		}
	}

	p.drawStatus()
	p.screen.Show()
}

func (p *pad) drawStatus() {
	state := "idle"
	switch {
	case p.inGesture:
		state = "gesture"
	case p.engine.Momentum():
		state = "momentum"
	}

	status := fmt.Sprintf(" %s | phase=%s momentum=%s point=(%+.1f,%+.1f) offset=(%d,%d) fed=%d applied=%d | wheel scrolls, g tops, s stops, q quits ",
		state,
		p.last.Phase, p.last.Momentum,
		p.last.Point.X, p.last.Point.Y,
		int(p.offsetX), int(p.offsetY),
		p.fed, p.applied,
	)
	if p.lastErr != nil {
		status += fmt.Sprintf("err=%v ", p.lastErr)
	}
	if len(status) < p.width {
		status += strings.Repeat(" ", p.width-len(status))
	}

	p.drawText(0, p.height-1, tcell.StyleDefault.Reverse(true), status)
}

func (p *pad) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		if x >= p.width {
			break
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (p *pad) cleanup() {
	p.engine.Stop()
	p.screen.Fini()
}
