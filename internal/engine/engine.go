package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/ledsignal/internal/color"
	"github.com/lumenlab/ledsignal/internal/light"
)

// FrameSink receives the rendered frame once per tick.
type FrameSink interface {
	PublishFrame(frame []color.RGB) error
}

// Snapshotter persists the serialized scene hierarchy. Called from the
// render goroutine so the hierarchy is stable while it is marshalled.
type Snapshotter interface {
	SaveSnapshot(doc []byte) error
}

// Options tune the render loop. Zero values pick the defaults below.
type Options struct {
	FPS           int
	DrainBatch    int
	AutosaveEvery time.Duration
	Snapshotter   Snapshotter
}

const (
	defaultFPS        = 60
	defaultDrainBatch = 128
)

// Engine owns the scene hierarchy and runs the fixed-period render loop.
// All mutations arrive as intents through the queue and are applied
// between frames on the loop goroutine; nothing else touches the manager
// once Run has started.
type Engine struct {
	manager *light.Manager
	queue   *Queue
	sinks   []FrameSink

	fps        int
	drainBatch int

	autosave time.Duration
	snap     Snapshotter

	buf []color.RGB
}

// New wires an engine around an already-built manager.
func New(m *light.Manager, q *Queue, sinks []FrameSink, opts Options) *Engine {
	fps := opts.FPS
	if fps < 1 {
		fps = defaultFPS
	}
	batch := opts.DrainBatch
	if batch < 1 {
		batch = defaultDrainBatch
	}
	return &Engine{
		manager:    m,
		queue:      q,
		sinks:      sinks,
		fps:        fps,
		drainBatch: batch,
		autosave:   opts.AutosaveEvery,
		snap:       opts.Snapshotter,
		buf:        make([]color.RGB, m.LEDCount()),
	}
}

// Manager exposes the hierarchy for startup wiring. Must not be used
// concurrently with Run.
func (e *Engine) Manager() *light.Manager { return e.manager }

// Tick runs one frame: drain a bounded batch of intents, apply them,
// advance the hierarchy by dt seconds, render, publish. A failing intent
// is logged and skipped; it never stops the frame.
func (e *Engine) Tick(dt float64) {
	for _, in := range e.queue.Drain(e.drainBatch) {
		if err := in.Apply(e.manager); err != nil {
			log.Warn().
				Err(err).
				Str("address", in.Address).
				Str("intent_id", in.ID).
				Msg("Command rejected")
		}
	}

	e.manager.Update(dt)
	e.manager.Render(e.buf)

	for _, sink := range e.sinks {
		if err := sink.PublishFrame(e.buf); err != nil {
			log.Warn().Err(err).Msg("Frame publish failed")
		}
	}
}

// Run drives the loop at the configured rate until ctx is cancelled. The
// per-frame dt is wall-clock measured, so a late tick advances animations
// by the real elapsed time instead of replaying missed frames.
func (e *Engine) Run(ctx context.Context) error {
	period := time.Second / time.Duration(e.fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	log.Info().
		Int("fps", e.fps).
		Int("led_count", e.manager.LEDCount()).
		Msg("Render loop started")

	last := time.Now()
	nextSave := time.Time{}
	if e.autosave > 0 && e.snap != nil {
		nextSave = last.Add(e.autosave)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Render loop stopping")
			e.saveSnapshot()
			return nil

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			e.Tick(dt)

			if !nextSave.IsZero() && now.After(nextSave) {
				e.saveSnapshot()
				nextSave = now.Add(e.autosave)
			}
		}
	}
}

func (e *Engine) saveSnapshot() {
	if e.snap == nil {
		return
	}
	doc, err := light.MarshalScenes(e.manager)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize scenes for snapshot")
		return
	}
	if err := e.snap.SaveSnapshot(doc); err != nil {
		log.Error().Err(err).Msg("Failed to persist scene snapshot")
		return
	}
	log.Debug().Int("bytes", len(doc)).Msg("Scene snapshot saved")
}
