// Command scroll-bridge exposes the scroll synthesizer over a websocket.
// Each connection gets its own gesture engine: clients stream raw input
// deltas in, and every synthesized scroll event streams back out on the
// same socket.
//
// Usage:
//
//	scroll-bridge
//	scroll-bridge -listen :9473 -feel floaty
//	scroll-bridge -config bridge.yaml
//
// Inbound frames are JSON objects {"dx": 3.5, "dy": -1, "phase": "began"}
// with phase one of began, changed, ended, or stop (stop cancels a running
// momentum tail). Outbound frames are envelopes {"type", "ts", "data"}:
// a hello frame on connect, scroll frames carrying events, and error
// frames for rejected input.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/inputkit/scrollsynth"
)

const (
	defaultListen = ":8473"
	defaultWSPath = "/scroll"

	// Write must complete within this window or the connection is dead.
	writeWait = 5 * time.Second

	// A pong must arrive within this window after a ping.
	pongWait = 30 * time.Second

	// Ping cadence; must stay under pongWait.
	pingPeriod = 20 * time.Second

	// Inbound frames are tiny delta objects.
	maxInboundBytes = 1024

	// Outbound frames queue here per client; overflow is dropped so a
	// slow consumer cannot stall the engine.
	sendBufferSize = 128

	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "", "bridge configuration file (YAML)")
	listen := flag.String("listen", "", "listen address, overrides the config file")
	feelName := flag.String("feel", "", "feel preset for new connections, overrides the config file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadBridgeConfig(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *feelName != "" {
		feel, err := scrollsynth.ParseFeel(*feelName)
		if err != nil {
			return err
		}
		cfg.Tuning.Feel = feel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newBridge(cfg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, b.serveWS)
	mux.HandleFunc("/healthz", b.serveHealth)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: writeWait,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Listen),
			zap.String("path", cfg.Path),
			zap.Stringer("feel", cfg.Tuning.Feel))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		b.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLogger builds a JSON zap logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zap.DebugLevel
	case "info":
		zapLevel = zap.InfoLevel
	case "warn":
		zapLevel = zap.WarnLevel
	case "error":
		zapLevel = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}

// bridgeConfig is the YAML configuration file shape.
type bridgeConfig struct {
	Listen string             `yaml:"listen"`
	Path   string             `yaml:"path"`
	Tuning scrollsynth.Config `yaml:"tuning"`
}

func loadBridgeConfig(path string) (bridgeConfig, error) {
	cfg := bridgeConfig{Listen: defaultListen, Path: defaultWSPath}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.Path == "" {
		cfg.Path = defaultWSPath
	}
	return cfg, nil
}

// input is one inbound delta frame from a client.
type input struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Phase string  `json:"phase"`
}

// envelope is the outbound wire frame.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type bridge struct {
	cfg      bridgeConfig
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func newBridge(cfg bridgeConfig, logger *zap.Logger) *bridge {
	return &bridge{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (b *bridge) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	c.log = b.log.With(zap.String("client_id", c.id.String()))

	cfg := b.cfg.Tuning
	cfg.Sink = scrollsynth.SinkFunc(func(e scrollsynth.Event) {
		c.enqueue("scroll", e)
	})
	cfg.Logger = c.log

	eng, err := scrollsynth.New(&cfg)
	if err != nil {
		c.log.Error("engine config rejected", zap.Error(err))
		_ = conn.Close()
		return
	}
	c.engine = eng

	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	c.log.Info("client connected", zap.String("remote", r.RemoteAddr))
	c.enqueue("hello", map[string]any{
		"client_id": c.id.String(),
		"feel":      cfg.Feel.String(),
	})

	go c.writePump()
	go c.readPump(b)
}

func (b *bridge) serveHealth(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	n := len(b.clients)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": n,
	})
}

// drop removes the client and tears down its engine. Safe to call more
// than once.
func (b *bridge) drop(c *client) {
	b.mu.Lock()
	_, known := b.clients[c]
	delete(b.clients, c)
	b.mu.Unlock()
	if !known {
		return
	}

	// Stop first so the final momentum marker still reaches the send
	// queue, then close it to let the write pump drain and exit.
	c.engine.Stop()
	close(c.send)
	c.log.Info("client disconnected")
}

func (b *bridge) closeAll() {
	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		b.drop(c)
	}
}

type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	engine scrollsynth.Engine
	send   chan []byte
	log    *zap.Logger
}

// enqueue marshals an envelope onto the send queue without blocking; the
// engine sink calls this under the engine lock.
func (c *client) enqueue(typ string, data any) {
	now := time.Now().UTC()
	frame, err := json.Marshal(envelope{Type: typ, Ts: &now, Data: data})
	if err != nil {
		c.log.Error("marshal frame", zap.String("type", typ), zap.Error(err))
		return
	}

	select {
	case c.send <- frame:
	default:
		c.log.Warn("send queue full, dropping frame", zap.String("type", typ))
	}
}

func (c *client) readPump(b *bridge) {
	defer func() {
		b.drop(c)
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("read failed", zap.Error(err))
			}
			return
		}
		c.handleInput(data)
	}
}

func (c *client) handleInput(data []byte) {
	var in input
	if err := json.Unmarshal(data, &in); err != nil {
		c.enqueue("error", map[string]string{"message": "malformed input frame"})
		return
	}

	if strings.EqualFold(strings.TrimSpace(in.Phase), "stop") {
		c.engine.Stop()
		return
	}

	phase, err := scrollsynth.ParseInputPhase(in.Phase)
	if err != nil {
		c.enqueue("error", map[string]string{"message": err.Error()})
		return
	}

	if err := c.engine.Feed(scrollsynth.Vec(in.DX, in.DY), phase); err != nil {
		c.enqueue("error", map[string]string{"message": err.Error()})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
